// Package fuzztests houses Go fuzz harnesses for the front half of the
// compiler (source -> directive lexer -> attribute parser -> IR). The goal is
// robustness: no panics and bounded diagnostics on arbitrary input.
//
// Назначение: прогонять произвольные байты через FileSet, lexer, attr, scan и ir.
//
// Не делает: генерацию кода, запись файлов, выполнение CLI.
package fuzztests
