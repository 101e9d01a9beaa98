package lang

import (
	"github.com/smacker/go-tree-sitter/cpp"
)

func init() {
	Languages["cpp"] = &Language{
		Name:             "cpp",
		Extensions:       []string{".cc", ".cpp", ".cxx", ".c++", ".C", ".ii"},
		HeaderExtensions: []string{".hh", ".hpp", ".hxx", ".h++", ".H"},
		XValues:          []string{"c++", "c++-header", "c++-cpp-output"},
		lang:             cpp.GetLanguage(),
		NameTypes: map[string]bool{
			"identifier":           true,
			"field_identifier":     true,
			"qualified_identifier": true,
			"destructor_name":      true,
			"operator_name":        true,
			"template_function":    true,
			"template_method":      true,
		},
		MemberCalls: true,
	}
}
