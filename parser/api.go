package parser

import (
	"fmt"
	"go/token"

	"github.com/gusakk/fluxsem/frontend/ast"
	"github.com/gusakk/fluxsem/frontend/fluxerr"
	"github.com/gusakk/fluxsem/internal/log"
)

var logger = log.Section("parser")

// maxErrors bounds the number of syntax errors reported for a single file.
const maxErrors = 10

// ParseFile parses src and registers it as name in fset.
//
// On syntax errors the returned error is a fluxerr.Parse listing every
// error found (up to a limit), and the partially parsed file is returned
// alongside it.
func ParseFile(fset *token.FileSet, name string, src []byte) (*ast.File, error) {
	tf := fset.AddFile(name, -1, len(src))
	tf.SetLinesForContent(src)

	sc := newScanner(tf, src)
	p := &parser{
		file:   tf,
		name:   name,
		items:  sc.scanAll(),
		Logger: logger,
	}
	for _, scanErr := range sc.errors {
		p.errs = p.errs.With(fluxerr.Syntax{Loc: p.locate(scanErr.pos, scanErr.pos), Message: scanErr.msg})
	}

	f := p.parseFile()
	if p.errs.HasError() {
		p.Debug("syntax errors", "file", name, "errors", p.errs)
		return f, fluxerr.Parse{File: name, Errors: p.errs.Errors()}
	}
	return f, nil
}

// ParseString is a convenience wrapper around ParseFile for tests and
// snippets, using a throwaway FileSet.
func ParseString(name, src string) (*ast.File, error) {
	return ParseFile(token.NewFileSet(), name, []byte(src))
}

// bailout is raised to abandon the current statement after a syntax error.
type bailout struct{}

func (p *parser) locate(start, end token.Pos) ast.SourceLocation {
	loc := ast.SourceLocation{File: p.name}
	if start.IsValid() {
		loc.Start = p.file.PositionFor(start, false)
	}
	if end.IsValid() {
		loc.End = p.file.PositionFor(end, false)
	}
	return loc
}

func (p *parser) fail(at item, format string, args ...any) {
	p.errs = p.errs.With(fluxerr.Syntax{
		Loc:     p.locate(at.pos, at.end),
		Message: fmt.Sprintf(format, args...),
	})
	panic(bailout{})
}

// protect runs parse and reports whether it completed without a syntax error.
// After an error the parser skips to the next line that can start a statement.
func (p *parser) protect(parse func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			p.sync()
			ok = false
		}
	}()
	parse()
	return true
}

func (p *parser) sync() {
	errLine := p.file.Line(p.cur().pos)
	for p.cur().kind != tEOF {
		it := p.cur()
		if p.file.Line(it.pos) > errLine {
			switch it.kind {
			case tIdent, tOption, tBuiltin, tImport, tTestcase, tPackage:
				return
			}
		}
		p.advance()
	}
}
