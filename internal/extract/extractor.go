// Package extract walks parsed syntax trees and produces the exported API
// surface of TypeScript and JavaScript source files. Only top-level export
// statements are considered; all type and parameter text is sliced verbatim
// from the source buffer the tree was parsed from.
package extract

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// maxTypeAliasLen bounds the rendered right-hand side of a type alias.
// Longer expressions are cut to truncatedTypeAliasLen runes plus "...".
const (
	maxTypeAliasLen       = 100
	truncatedTypeAliasLen = 97
)

// Exports extracts all exported top-level declarations from a parsed file.
// The tree and source buffer are borrowed for the duration of the call and
// never mutated; the caller keeps ownership of both.
func Exports(root *sitter.Node, source []byte) []ExportedItem {
	items, _ := ExportsDetailed(root, source)
	return items
}

// ExportsDetailed is Exports plus the per-declaration skip reasons, for
// diagnostics. A skipped declaration never blocks extraction of its
// siblings.
func ExportsDetailed(root *sitter.Node, source []byte) ([]ExportedItem, []Skip) {
	items := []ExportedItem{}
	var skips []Skip

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(uint(i))
		if child.Kind() != "export_statement" {
			continue
		}

		for _, res := range exportStatement(child, source) {
			if res.item != nil {
				items = append(items, *res.item)
			} else if res.skip != "" {
				skips = append(skips, Skip{NodeKind: child.Kind(), Reason: res.skip})
			}
		}
	}

	return items, skips
}

// exportStatement dispatches on the declaration wrapped by one export
// statement. Unrecognized node kinds fall through to a skip result so one
// unsupported construct never drops the whole statement.
func exportStatement(node *sitter.Node, source []byte) []result {
	isDefault := findChild(node, "default") != nil

	var results []result
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))

		switch child.Kind() {
		case "function_declaration":
			results = append(results, function(child, source, isDefault))
		case "function_signature":
			// Ambient and overload signatures have no body and no
			// default/body distinction.
			results = append(results, function(child, source, false))
		case "class_declaration":
			results = append(results, class(child, source, isDefault))
		case "interface_declaration":
			results = append(results, iface(child, source))
		case "type_alias_declaration":
			results = append(results, typeAlias(child, source))
		case "enum_declaration":
			results = append(results, enum(child, source))
		case "lexical_declaration", "variable_declaration":
			results = append(results, declarators(child, source)...)
		case "export", "default", ";", ",", "comment", "decorator":
			// Statement structure, not a declaration.
		default:
			results = append(results, skipped(fmt.Sprintf("unsupported node kind %q", child.Kind())))
		}
	}

	return results
}

// function renders a function declaration or ambient function signature.
func function(node *sitter.Node, source []byte, isDefault bool) result {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return skipped("function has no name")
	}

	name := nodeText(nameNode, source)
	params := paramsText(node.ChildByFieldName("parameters"), source)
	returnType := nodeText(node.ChildByFieldName("return_type"), source)

	prefix := "export "
	if isDefault {
		prefix = "export default "
	}

	return ok(ExportedItem{
		Kind:      KindFunction,
		Name:      name,
		Signature: prefix + "function " + name + params + returnType,
	})
}

// class renders a class declaration with its non-private members.
func class(node *sitter.Node, source []byte, isDefault bool) result {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return skipped("class has no name")
	}

	name := nodeText(nameNode, source)

	heritage := ""
	if h := findChild(node, "class_heritage"); h != nil {
		heritage = " " + nodeText(h, source)
	}

	var members []string
	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			member := body.Child(uint(i))
			switch member.Kind() {
			case "method_definition":
				if sig, keep := methodSignature(member, source); keep {
					members = append(members, sig)
				}
			case "public_field_definition":
				if sig, keep := fieldSignature(member, source); keep {
					members = append(members, sig)
				}
			}
		}
	}

	prefix := "export "
	if isDefault {
		prefix = "export default "
	}

	return ok(ExportedItem{
		Kind:      KindClass,
		Name:      name,
		Signature: prefix + "class " + name + heritage,
		Members:   members,
	})
}

// methodSignature renders one class method as
// "[async ][static ]NAME(PARAMS)[: RETURN]". Private methods are dropped.
func methodSignature(node *sitter.Node, source []byte) (string, bool) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == "accessibility_modifier" && nodeText(child, source) == "private" {
			return "", false
		}
	}

	nameNode := findChild(node, "property_identifier")
	if nameNode == nil {
		return "", false
	}

	modifiers := ""
	if findChild(node, "async") != nil {
		modifiers += "async "
	}
	if findChild(node, "static") != nil {
		modifiers += "static "
	}

	name := nodeText(nameNode, source)
	params := paramsText(node.ChildByFieldName("parameters"), source)
	returnType := nodeText(node.ChildByFieldName("return_type"), source)

	return modifiers + name + params + returnType, true
}

// fieldSignature renders one class field as "NAME[: TYPE]".
func fieldSignature(node *sitter.Node, source []byte) (string, bool) {
	nameNode := findChild(node, "property_identifier")
	if nameNode == nil {
		return "", false
	}

	typeText := nodeText(node.ChildByFieldName("type"), source)
	return nodeText(nameNode, source) + typeText, true
}

// iface renders an interface declaration with its property and method
// signatures.
func iface(node *sitter.Node, source []byte) result {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return skipped("interface has no name")
	}

	name := nodeText(nameNode, source)
	typeParams := nodeText(node.ChildByFieldName("type_parameters"), source)

	extends := ""
	if e := findChild(node, "extends_type_clause"); e != nil {
		extends = " " + nodeText(e, source)
	}

	var members []string
	body := node.ChildByFieldName("body")
	if body == nil {
		body = findChild(node, "object_type")
	}
	if body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			member := body.Child(uint(i))
			switch member.Kind() {
			case "property_signature":
				if sig, keep := propertySignature(member, source); keep {
					members = append(members, sig)
				}
			case "method_signature":
				if sig, keep := interfaceMethodSignature(member, source); keep {
					members = append(members, sig)
				}
			}
		}
	}

	return ok(ExportedItem{
		Kind:      KindInterface,
		Name:      name,
		Signature: "export interface " + name + typeParams + extends,
		Members:   members,
	})
}

// propertySignature renders one interface property as "NAME[?][: TYPE]".
func propertySignature(node *sitter.Node, source []byte) (string, bool) {
	nameNode := findChild(node, "property_identifier")
	if nameNode == nil {
		return "", false
	}

	optional := ""
	if findChild(node, "?") != nil {
		optional = "?"
	}

	typeText := nodeText(node.ChildByFieldName("type"), source)
	return nodeText(nameNode, source) + optional + typeText, true
}

// interfaceMethodSignature renders one interface method as
// "NAME[?](PARAMS)[: RETURN]".
func interfaceMethodSignature(node *sitter.Node, source []byte) (string, bool) {
	nameNode := findChild(node, "property_identifier")
	if nameNode == nil {
		return "", false
	}

	optional := ""
	if findChild(node, "?") != nil {
		optional = "?"
	}

	name := nodeText(nameNode, source)
	params := paramsText(node.ChildByFieldName("parameters"), source)
	returnType := nodeText(node.ChildByFieldName("return_type"), source)

	return name + optional + params + returnType, true
}

// typeAlias renders a type alias declaration, truncating oversized
// right-hand sides.
func typeAlias(node *sitter.Node, source []byte) result {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return skipped("type alias has no name")
	}

	name := nodeText(nameNode, source)
	typeParams := nodeText(node.ChildByFieldName("type_parameters"), source)
	value := nodeText(node.ChildByFieldName("value"), source)

	if runes := []rune(value); len(runes) > maxTypeAliasLen {
		value = string(runes[:truncatedTypeAliasLen]) + "..."
	}

	return ok(ExportedItem{
		Kind:      KindType,
		Name:      name,
		Signature: "export type " + name + typeParams + " = " + value,
	})
}

// enum renders an enum declaration with its member names, without values.
func enum(node *sitter.Node, source []byte) result {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return skipped("enum has no name")
	}

	var members []string
	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			member := body.Child(uint(i))
			switch member.Kind() {
			case "property_identifier":
				members = append(members, nodeText(member, source))
			case "enum_assignment":
				if n := member.ChildByFieldName("name"); n != nil {
					members = append(members, nodeText(n, source))
				}
			}
		}
	}

	name := nodeText(nameNode, source)
	return ok(ExportedItem{
		Kind:      KindEnum,
		Name:      name,
		Signature: "export enum " + name,
		Members:   members,
	})
}

// declarators expands one const/let/var declaration into results, one per
// declarator.
func declarators(node *sitter.Node, source []byte) []result {
	keyword := "const"
	for i := 0; i < int(node.ChildCount()); i++ {
		switch node.Child(uint(i)).Kind() {
		case "const", "let", "var":
			keyword = node.Child(uint(i)).Kind()
		}
	}

	var results []result
	for _, decl := range findChildren(node, "variable_declarator") {
		results = append(results, declarator(decl, source, keyword))
	}
	return results
}

// declarator renders one variable declarator. Declarators binding a
// function value render as a function item with the body elided; binding
// patterns (destructuring) have no single name and are skipped silently.
func declarator(node *sitter.Node, source []byte, keyword string) result {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil || nameNode.Kind() != "identifier" {
		return skipped("declarator binds a destructuring pattern")
	}

	name := nodeText(nameNode, source)
	value := node.ChildByFieldName("value")

	if value != nil {
		switch value.Kind() {
		case "arrow_function":
			params := paramsText(value.ChildByFieldName("parameters"), source)
			if value.ChildByFieldName("parameters") == nil {
				// Single parameter without parentheses.
				if p := value.ChildByFieldName("parameter"); p != nil {
					params = "(" + nodeText(p, source) + ")"
				}
			}
			returnType := nodeText(value.ChildByFieldName("return_type"), source)
			return ok(ExportedItem{
				Kind:      KindFunction,
				Name:      name,
				Signature: "export " + keyword + " " + name + " = " + params + returnType + " => ...",
			})
		case "function_expression", "function":
			params := paramsText(value.ChildByFieldName("parameters"), source)
			returnType := nodeText(value.ChildByFieldName("return_type"), source)
			return ok(ExportedItem{
				Kind:      KindFunction,
				Name:      name,
				Signature: "export " + keyword + " " + name + " = function" + params + returnType,
			})
		}
	}

	kind := KindVariable
	if keyword == "const" {
		kind = KindConst
	}

	typeText := nodeText(node.ChildByFieldName("type"), source)
	return ok(ExportedItem{
		Kind:      kind,
		Name:      name,
		Signature: "export " + keyword + " " + name + typeText,
	})
}

// nodeText slices the verbatim source text of a node. Offsets are only
// valid against the exact buffer the tree was parsed from.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// paramsText renders a formal parameter list, defaulting to "()" when the
// node is absent.
func paramsText(node *sitter.Node, source []byte) string {
	if node == nil {
		return "()"
	}
	return nodeText(node, source)
}

// findChild returns the first direct child with the given kind.
func findChild(node *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// findChildren returns all direct children with the given kind.
func findChildren(node *sitter.Node, kind string) []*sitter.Node {
	var results []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			results = append(results, child)
		}
	}
	return results
}
