// Package fuzztests houses Go fuzz harnesses for the template front end
// (source -> lexer -> stream -> parser). They guard against panics, hangs
// and broken token or location invariants on arbitrary input.
//
// Назначение: прогонять произвольные байты через лексер и парсер ядра.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
