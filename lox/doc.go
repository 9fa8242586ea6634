// Package lox implements a tree-walking interpreter for Lox, a small
// dynamically typed language with lexical scope. A program passes through
// four stages:
//   - Scan turns source text into tokens.
//   - Parse builds statements with a recursive-descent parser that recovers
//     at statement boundaries so one pass reports every syntax error.
//   - Resolve records, for each variable, `this` and `super` reference, how
//     many scopes separate it from its declaration.
//   - Interpreter walks the resolved tree against a chain of environments.
//
// The language has closures, first-class functions, and classes with single
// inheritance. Class methods are declared with a `class` prefix and live on
// a metaclass. Methods declared without a parameter list are getters: they
// run on first property read and their result is cached on the instance.
//
// Engine.Compile runs the static stages and Interpreter.Run executes the
// result. Static errors are returned as StaticErrors, runtime failures as
// *RuntimeError.
package lox
