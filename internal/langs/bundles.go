package langs

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_dart "github.com/tree-sitter-grammars/tree-sitter-dart/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Each bundle's queries are tree-sitter S-expressions. Capture names
// follow spec.md §4.2: @function.name/@function.def, @class.name/
// @class.def, @import.path (or .module/.name/.source), @call.name/
// @call.method, @type.name/@type.def.

func pythonBundle() *Bundle {
	return &Bundle{
		Tag:        Python,
		Extensions: []string{".py", ".pyi"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_python.Language()) },
		FunctionQuery: `
			(function_definition name: (identifier) @function.name) @function.def
		`,
		ClassQuery: `
			(class_definition name: (identifier) @class.name) @class.def
		`,
		ImportQuery: `
			(import_statement name: (dotted_name) @import.module)
			(import_statement name: (aliased_import name: (dotted_name) @import.module))
			(import_from_statement module_name: (dotted_name) @import.module)
			(import_from_statement module_name: (relative_import) @import.module)
		`,
		CallQuery: `
			(call function: (identifier) @call.name)
			(call function: (attribute attribute: (identifier) @call.method))
		`,
	}
}

func typescriptBundle() *Bundle {
	return &Bundle{
		Tag:        TypeScript,
		Extensions: []string{".ts", ".tsx"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()) },
		FunctionQuery: `
			(function_declaration name: (identifier) @function.name) @function.def
			(method_definition name: (property_identifier) @function.name) @function.def
			(variable_declarator name: (identifier) @function.name value: (arrow_function)) @function.def
			(variable_declarator name: (identifier) @function.name value: (function_expression)) @function.def
		`,
		ClassQuery: `
			(class_declaration name: (type_identifier) @class.name) @class.def
		`,
		ImportQuery: `
			(import_statement source: (string) @import.path)
			(export_statement source: (string) @import.path)
		`,
		CallQuery: `
			(call_expression function: (identifier) @call.name)
			(call_expression function: (member_expression property: (property_identifier) @call.method))
		`,
		TypeQuery: `
			(interface_declaration name: (type_identifier) @type.name) @type.def
			(type_alias_declaration name: (type_identifier) @type.name) @type.def
			(enum_declaration name: (identifier) @type.name) @type.def
		`,
	}
}

func javascriptBundle() *Bundle {
	return &Bundle{
		Tag:        JavaScript,
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_javascript.Language()) },
		FunctionQuery: `
			(function_declaration name: (identifier) @function.name) @function.def
			(method_definition name: (property_identifier) @function.name) @function.def
			(variable_declarator name: (identifier) @function.name value: (arrow_function)) @function.def
			(variable_declarator name: (identifier) @function.name value: (function_expression)) @function.def
		`,
		ClassQuery: `
			(class_declaration name: (identifier) @class.name) @class.def
		`,
		ImportQuery: `
			(import_statement source: (string) @import.path)
			(call_expression function: (identifier) @_require (#eq? @_require "require")
				arguments: (arguments (string) @import.path))
		`,
		CallQuery: `
			(call_expression function: (identifier) @call.name)
			(call_expression function: (member_expression property: (property_identifier) @call.method))
		`,
	}
}

func goBundle() *Bundle {
	return &Bundle{
		Tag:        Go,
		Extensions: []string{".go"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_go.Language()) },
		FunctionQuery: `
			(function_declaration name: (identifier) @function.name) @function.def
			(method_declaration name: (field_identifier) @function.name) @function.def
		`,
		ClassQuery: `
			(type_spec name: (type_identifier) @class.name type: (struct_type)) @class.def
		`,
		ImportQuery: `
			(import_spec path: (interpreted_string_literal) @import.path)
		`,
		CallQuery: `
			(call_expression function: (identifier) @call.name)
			(call_expression function: (selector_expression field: (field_identifier) @call.method))
		`,
		TypeQuery: `
			(type_spec name: (type_identifier) @type.name type: (interface_type)) @type.def
			(type_spec name: (type_identifier) @type.name type: (struct_type)) @type.def
		`,
	}
}

func rustBundle() *Bundle {
	return &Bundle{
		Tag:        Rust,
		Extensions: []string{".rs"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_rust.Language()) },
		FunctionQuery: `
			(function_item name: (identifier) @function.name) @function.def
		`,
		ClassQuery: `
			(trait_item name: (type_identifier) @class.name) @class.def
		`,
		ImportQuery: `
			(use_declaration argument: (scoped_identifier) @import.path)
			(use_declaration argument: (identifier) @import.path)
			(use_declaration argument: (use_as_clause path: (scoped_identifier) @import.path))
		`,
		CallQuery: `
			(call_expression function: (identifier) @call.name)
			(call_expression function: (field_expression field: (field_identifier) @call.method))
		`,
		TypeQuery: `
			(struct_item name: (type_identifier) @type.name) @type.def
			(enum_item name: (type_identifier) @type.name) @type.def
			(type_item name: (type_identifier) @type.name) @type.def
		`,
	}
}

func javaBundle() *Bundle {
	return &Bundle{
		Tag:        Java,
		Extensions: []string{".java"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_java.Language()) },
		FunctionQuery: `
			(method_declaration name: (identifier) @function.name) @function.def
			(constructor_declaration name: (identifier) @function.name) @function.def
		`,
		ClassQuery: `
			(class_declaration name: (identifier) @class.name) @class.def
			(interface_declaration name: (identifier) @class.name) @class.def
		`,
		ImportQuery: `
			(import_declaration (scoped_identifier) @import.path)
		`,
		CallQuery: `
			(method_invocation name: (identifier) @call.method)
			(method_invocation object: (identifier) name: (identifier) @call.method)
		`,
	}
}

func cBundle() *Bundle {
	return &Bundle{
		Tag:        C,
		Extensions: []string{".c", ".h"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_c.Language()) },
		FunctionQuery: `
			(function_definition declarator: (function_declarator declarator: (identifier) @function.name)) @function.def
		`,
		ClassQuery: ``,
		ImportQuery: `
			(preproc_include path: (string_literal) @import.path)
			(preproc_include path: (system_lib_string) @import.path)
		`,
		CallQuery: `
			(call_expression function: (identifier) @call.name)
		`,
		TypeQuery: `
			(struct_specifier name: (type_identifier) @type.name) @type.def
			(enum_specifier name: (type_identifier) @type.name) @type.def
		`,
	}
}

func cppBundle() *Bundle {
	return &Bundle{
		Tag:        Cpp,
		Extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_cpp.Language()) },
		FunctionQuery: `
			(function_definition declarator: (function_declarator declarator: (identifier) @function.name)) @function.def
			(function_definition declarator: (function_declarator declarator: (qualified_identifier name: (identifier) @function.name))) @function.def
			(function_definition declarator: (function_declarator declarator: (field_identifier) @function.name)) @function.def
		`,
		ClassQuery: `
			(class_specifier name: (type_identifier) @class.name) @class.def
			(struct_specifier name: (type_identifier) @class.name) @class.def
		`,
		ImportQuery: `
			(preproc_include path: (string_literal) @import.path)
			(preproc_include path: (system_lib_string) @import.path)
		`,
		CallQuery: `
			(call_expression function: (identifier) @call.name)
			(call_expression function: (field_expression field: (field_identifier) @call.method))
		`,
	}
}

func dartBundle() *Bundle {
	return &Bundle{
		Tag:        Dart,
		Extensions: []string{".dart"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_dart.Language()) },
		// Dart's grammar exposes function_signature/method_signature
		// nodes whose name identifier is a sibling, not a labeled
		// field (spec.md §4.3 edge case); the query only locates the
		// signature node, and extract/extract_dart.go takes the first
		// identifier inside it as the name.
		FunctionQuery: `
			(function_signature) @function.def
			(method_signature) @function.def
		`,
		ClassQuery: `
			(class_definition name: (identifier) @class.name) @class.def
		`,
		ImportQuery: `
			(import_or_export) @import.source
		`,
		CallQuery: `
			(method_invocation name: (identifier) @call.method)
			(selector (identifier) @call.name)
		`,
	}
}
