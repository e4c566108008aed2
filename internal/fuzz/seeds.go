package fuzztests

import (
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

// directiveSeeds are argument lists as they follow //jsonerr:case.
var directiveSeeds = []string{
	`(request, status = 404, code = "not-found")`,
	`(request, status = http.StatusConflict, code = "conflict", hint = "retry later")`,
	`(internal)`,
	"(request, status = 0x190, code = `raw`)",
	`(request, status = 4.5, code = 1)`,
	`(request(status = 400))`,
	`(, , =)`,
	`("unterminated`,
}

// fileSeeds are whole Go files with unit declarations.
var fileSeeds = []string{
	`package app

//jsonerr:unit AppErrors(internal_code = "oops")
type (
	//jsonerr:case(request, status = 404, code = "not-found")
	NotFound struct{}

	//jsonerr:case(internal)
	Storage struct{ Err error }
)
`,
	`package app

//jsonerr:unit Bare
type (
	Missing struct{}
)
`,
	`package app

//jsonerr:unit
type X struct{}
`,
}

func addDirectiveSeeds(f *testing.F) {
	for _, s := range directiveSeeds {
		f.Add(clampSeed([]byte(s)))
	}
	f.Add([]byte{})
}

func addFileSeeds(f *testing.F) {
	for _, s := range fileSeeds {
		f.Add(clampSeed([]byte(s)))
	}
	f.Add([]byte("package p\n"))
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}
