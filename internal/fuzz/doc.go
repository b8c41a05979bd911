// Package fuzztests houses Go fuzz harnesses for the reader pipeline
// (source -> lexer -> parser). Its goal is to smoke test robustness and to
// check structural properties on arbitrary inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер/парсер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/ast,
// internal/testkit.

package fuzztests
