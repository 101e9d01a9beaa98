package lang

import (
	"github.com/smacker/go-tree-sitter/c"
)

func init() {
	Languages["c"] = &Language{
		Name:             "c",
		Extensions:       []string{".c", ".i"},
		HeaderExtensions: []string{".h"},
		XValues:          []string{"c", "c-header", "cpp-output"},
		lang:             c.GetLanguage(),
		NameTypes: map[string]bool{
			"identifier": true,
		},
	}
}
