package diag

import (
	"fmt"
	"slices"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические (токены директив)
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadEscape          Code = 1003
	LexBadNumber          Code = 1004

	// Синтаксические: форма директивы и исходник Go
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynUnclosedParen    Code = 2002
	SynExpectExpression Code = 2003
	SynTrailingTokens   Code = 2004
	SynExpectParenList  Code = 2005
	SynGoSource         Code = 2100

	// Атрибуты jsonerr:case
	AtrInfo                Code = 3000
	AtrMissing             Code = 3001
	AtrBadDisposition      Code = 3002
	AtrBadAssignment       Code = 3003
	AtrNotAssignment       Code = 3004
	AtrUnknown             Code = 3005
	AtrStatusType          Code = 3006
	AtrCodeType            Code = 3007
	AtrHintType            Code = 3008
	AtrDescriptionType     Code = 3009
	AtrMissingStatusOrCode Code = 3010
	AtrDuplicate           Code = 3011

	// Объявления (структура юнита и кейсов)
	DclInfo            Code = 4000
	DclUnitNotType     Code = 4001
	DclUnitMissingName Code = 4002
	DclTooManyFields   Code = 4003
	DclCaseOutsideUnit Code = 4004
	DclReservedName    Code = 4005
	DclEmptyUnit       Code = 4006
	DclTypeParams      Code = 4007
	DclDuplicateUnit   Code = 4008
	DclUnsupportedCase Code = 4009
	DclInternalClash   Code = 4010

	// I/O
	IOLoadFileError  Code = 5001
	IOWriteFileError Code = 5002

	// Проект
	ProjInfo             Code = 6000
	ProjBadManifest      Code = 6001
	ProjCombineUnknown   Code = 6002
	ProjCombineNotClient Code = 6003

	// Наблюдаемость
	ObsInfo    Code = 7000
	ObsTimings Code = 7001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		LexInfo:                "Lexical information",
		LexUnknownChar:         "Unknown character",
		LexUnterminatedString:  "Unterminated string literal",
		LexBadEscape:           "Invalid escape sequence",
		LexBadNumber:           "Invalid number literal",
		SynInfo:                "Syntax information",
		SynUnexpectedToken:     "Unexpected token",
		SynUnclosedParen:       "Unclosed parenthesis",
		SynExpectExpression:    "Expected expression",
		SynTrailingTokens:      "Unexpected tokens after directive",
		SynExpectParenList:     "Directive arguments must be parenthesised",
		SynGoSource:            "Go source does not parse",
		AtrInfo:                "Attribute information",
		AtrMissing:             "Missing jsonerr:case attribute",
		AtrBadDisposition:      "First attribute must be request or internal",
		AtrBadAssignment:       "Malformed assignment",
		AtrNotAssignment:       "Attribute is not an assignment",
		AtrUnknown:             "Unknown attribute",
		AtrStatusType:          "Invalid status value",
		AtrCodeType:            "Invalid code value",
		AtrHintType:            "Invalid hint value",
		AtrDescriptionType:     "Invalid description value",
		AtrMissingStatusOrCode: "Missing status or code",
		AtrDuplicate:           "Duplicate attribute",
		DclInfo:                "Declaration information",
		DclUnitNotType:         "jsonerr:unit must annotate a type declaration",
		DclUnitMissingName:     "jsonerr:unit requires a unit name",
		DclTooManyFields:       "Case carries more than one payload field",
		DclCaseOutsideUnit:     "jsonerr:case outside of a unit",
		DclReservedName:        "Case name is reserved",
		DclEmptyUnit:           "Unit declares no cases",
		DclTypeParams:          "Generic cases are not supported",
		DclDuplicateUnit:       "Unit declared twice",
		DclUnsupportedCase:     "Unsupported case type",
		DclInternalClash:       "Units of one file disagree on the internal error code",
		IOLoadFileError:        "I/O load file error",
		IOWriteFileError:       "I/O write file error",
		ProjInfo:               "Project information",
		ProjBadManifest:        "Invalid jsonerr.toml",
		ProjCombineUnknown:     "docs.combine references an unknown case",
		ProjCombineNotClient:   "docs.combine references an internal case",
		ObsInfo:                "Observability information",
		ObsTimings:             "Pipeline timings",
	}
)

// Codes returns every known code in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ATR%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("DCL%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseID resolves a textual id such as "ATR3010" back to its Code.
func ParseID(id string) (Code, bool) {
	for c := range codeDescription {
		if c.ID() == id {
			return c, true
		}
	}
	return UnknownCode, false
}
