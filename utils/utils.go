package utils

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/takoeight0821/lox/token"
	"gopkg.in/yaml.v3"
)

// ErrorAt is an error located at a token.
type ErrorAt struct {
	Where   token.Token
	Message string
}

func (e ErrorAt) Error() string {
	if e.Where.Kind == token.EOF {
		return fmt.Sprintf("[line %d] Error at end: %s", e.Where.Line, e.Message)
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Where.Line, e.Where.Lexeme, e.Message)
}

// Leaves flattens errors combined by errors.Join into a list, in order.
func Leaves(err error) []error {
	if err == nil {
		return nil
	}
	if errs, ok := err.(interface{ Unwrap() []error }); ok {
		var leaves []error
		for _, err := range errs.Unwrap() {
			leaves = append(leaves, Leaves(err)...)
		}
		return leaves
	}
	return []error{err}
}

type TestData struct {
	Label    string
	Enable   bool
	Input    string
	Expected map[string]string
}

func ReadTestData(s []byte) []TestData {
	var data []TestData
	if err := yaml.Unmarshal(s, &data); err != nil {
		panic(err)
	}

	// Remove disabled test cases.
	i := 0
	for _, d := range data {
		if d.Enable {
			data[i] = d
			i++
		}
	}
	data = data[:i]

	return data
}

// FindSourceFiles returns every .lox file under root.
func FindSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".lox" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
