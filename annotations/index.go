package annotations

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

// Index maps Go declarations to their documentation blocks. Types are
// controllers; methods and functions are handlers.
//
// Keys are qualified by package name ("widgets.Controller",
// "widgets.Controller.Show", "widgets.health"). Unqualified keys are kept
// too, as long as they are unambiguous across the scanned packages.
type Index struct {
	types map[string]*DocBlock
	funcs map[string]*DocBlock
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		types: make(map[string]*DocBlock),
		funcs: make(map[string]*DocBlock),
	}
}

// ScanDir walks dir and indexes the documentation of every non-test Go
// file. Hidden directories, vendor and testdata are skipped.
func ScanDir(dir string) (*Index, error) {
	idx := NewIndex()
	fset := token.NewFileSet()

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		idx.AddFile(file)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return idx, nil
}

// AddFile indexes the declarations of a parsed file.
func (idx *Index) AddFile(file *ast.File) {
	pkg := file.Name.Name

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(d.Specs) == 1 {
					doc = d.Doc
				}
				if doc != nil {
					idx.add(idx.types, pkg, ts.Name.Name, Parse(doc.Text()))
				}
			}

		case *ast.FuncDecl:
			if d.Doc == nil {
				continue
			}
			name := d.Name.Name
			if recv := receiverName(d); recv != "" {
				name = recv + "." + name
			}
			idx.add(idx.funcs, pkg, name, Parse(d.Doc.Text()))
		}
	}
}

func (idx *Index) add(m map[string]*DocBlock, pkg, name string, block *DocBlock) {
	m[pkg+"."+name] = block

	if _, seen := m[name]; seen {
		m[name] = nil
		return
	}
	m[name] = block
}

// Lookup resolves a runtime handler name, as reported by mux.HandlerName,
// to the documentation of the declaring type and of the handler itself.
// Either result is nil when nothing is documented.
//
//	github.com/acme/app/widgets.(*Controller).Show-fm
//	github.com/acme/app/widgets.health
func (idx *Index) Lookup(handler string) (controller, method *DocBlock) {
	if idx == nil || handler == "" {
		return nil, nil
	}

	pkg, typ, fn := splitHandlerName(handler)
	if fn == "" {
		return nil, nil
	}

	if typ == "" {
		return nil, idx.find(idx.funcs, pkg, fn)
	}

	return idx.find(idx.types, pkg, typ), idx.find(idx.funcs, pkg, typ+"."+fn)
}

func (idx *Index) find(m map[string]*DocBlock, pkg, name string) *DocBlock {
	if b, ok := m[pkg+"."+name]; ok {
		return b
	}
	return m[name]
}

// splitHandlerName breaks a runtime function name into package name,
// receiver type and function name.
func splitHandlerName(name string) (pkg, typ, fn string) {
	name = strings.TrimSuffix(name, "-fm")

	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	name = strings.NewReplacer("(*", "", ")", "").Replace(name)

	parts := strings.Split(name, ".")
	switch len(parts) {
	case 2:
		return parts[0], "", parts[1]
	case 3:
		if strings.HasPrefix(parts[2], "func") {
			// closure inside a function
			return parts[0], "", parts[1]
		}
		return parts[0], parts[1], parts[2]
	}

	return "", "", ""
}

func receiverName(d *ast.FuncDecl) string {
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return ""
	}

	expr := d.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}

	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return id.Name
		}
	case *ast.IndexListExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return id.Name
		}
	}

	return ""
}
