// Package codegen generates the registration code of annotated Go
// packages: a Register(*gom.Registry) function binding their enums and
// classes, with an adapter per property, slot and constructor.
package codegen

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"text/template"
)

//go:embed register.tmpl
var templateFS embed.FS

var registerTemplate = template.Must(template.ParseFS(templateFS, "register.tmpl"))

type block struct {
	Enum  *Enum
	Class *Class
}

type importSpec struct {
	Name string // empty when it is the default name
	Path string
}

// Generate renders the registration code of pkg, gofmt-ed.
func Generate(pkg *Package) ([]byte, error) {
	data := struct {
		Name       string
		ImportList []importSpec
		Blocks     []block
	}{Name: pkg.Name}

	for p, name := range pkg.Imports {
		if name == defaultImportName(p) {
			name = ""
		}
		data.ImportList = append(data.ImportList, importSpec{Name: name, Path: p})
	}
	sort.Slice(data.ImportList, func(i, j int) bool { return data.ImportList[i].Path < data.ImportList[j].Path })
	for _, e := range pkg.Enums {
		data.Blocks = append(data.Blocks, block{Enum: e})
	}
	for _, c := range pkg.Classes {
		data.Blocks = append(data.Blocks, block{Class: c})
	}

	var buf bytes.Buffer
	if err := registerTemplate.ExecuteTemplate(&buf, "file", data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("failed to format generated code: %w", err)
	}
	return src, nil
}

// Run scans the package in dir and writes its registration code to output,
// or to OutputFile in dir when output is empty. It returns the written
// path.
func Run(ctx context.Context, dir, output string) (string, error) {
	pkg, err := Scan(ctx, dir)
	if err != nil {
		return "", err
	}
	src, err := Generate(pkg)
	if err != nil {
		return "", err
	}
	if output == "" {
		output = filepath.Join(dir, OutputFile)
	}
	if err := os.WriteFile(output, src, 0o644); err != nil {
		return "", err
	}
	return output, nil
}
