// Package entity defines the uniform entity model produced by every
// language extractor: Function, Class, TypeDefinition and File records,
// their stable ids, and the content hash used to gate re-embedding.
package entity

import (
	"encoding/binary"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Kind tags which variant of the Entity sum type a value holds.
type Kind string

const (
	KindFunction Kind = "function"
	KindClass    Kind = "class"
	KindType     Kind = "type"
	KindFile     Kind = "file"
	// KindExternal is never stored as a real Entity; it tags graph
	// placeholder nodes created for unresolved names (spec.md §3).
	KindExternal Kind = "external"
)

// TypeKind enumerates the shapes a TypeDefinition may take.
type TypeKind string

const (
	TypeInterface TypeKind = "interface"
	TypeAlias     TypeKind = "type"
	TypeStruct    TypeKind = "struct"
	TypeEnum      TypeKind = "enum"
)

// Location is the common field set every entity variant carries.
type Location struct {
	Repo      string
	FilePath  string // repo-root-relative, forward slashes; see Normalize
	Name      string
	StartLine int
	EndLine   int
}

// Function is the Entity variant for a function or method definition.
type Function struct {
	Location
	Signature    string
	Docstring    string
	Code         string
	ClassName    string // dotted "Outer.Inner" chain, empty if free function
	Decorators   []string
	Calls        []string
	IsAsync      bool
	IsConstructor bool
}

// Class is the Entity variant for a class/struct-with-methods definition.
type Class struct {
	Location
	Docstring   string
	Code        string
	Bases       []string
	Decorators  []string
	Methods     []string
	IsInterface bool
}

// TypeDefinition is the Entity variant for a standalone type declaration.
type TypeDefinition struct {
	Location
	Definition string
	Docstring  string
	Kind       TypeKind
}

// File is the Entity variant representing one source file.
type File struct {
	Location
	Language string
	Imports  []string // raw, unresolved import strings as captured
	Defines  []string // entity ids of every non-File entity this file defines
}

// Entity is implemented by Function, Class, TypeDefinition and File and
// is the common handle the rest of the system passes around.
type Entity interface {
	ID() string
	Loc() Location
	EntityKind() Kind
}

func (f Function) ID() string {
	if f.ClassName != "" {
		return f.Repo + ":" + f.FilePath + ":" + f.ClassName + "." + f.Name
	}
	return f.Repo + ":" + f.FilePath + ":" + f.Name
}
func (f Function) Loc() Location    { return f.Location }
func (f Function) EntityKind() Kind { return KindFunction }

func (c Class) ID() string          { return c.Repo + ":" + c.FilePath + ":" + c.Name }
func (c Class) Loc() Location       { return c.Location }
func (c Class) EntityKind() Kind    { return KindClass }

func (t TypeDefinition) ID() string       { return t.Repo + ":" + t.FilePath + ":" + t.Name }
func (t TypeDefinition) Loc() Location    { return t.Location }
func (t TypeDefinition) EntityKind() Kind { return KindType }

func (f File) ID() string       { return f.Repo + ":" + f.FilePath }
func (f File) Loc() Location    { return f.Location }
func (f File) EntityKind() Kind { return KindFile }

// IsEmbeddable reports whether an entity variant participates in the
// vector embedding store: every variant except File (spec.md §4.1).
func IsEmbeddable(e Entity) bool {
	switch e.EntityKind() {
	case KindFunction, KindClass, KindType:
		return true
	default:
		return false
	}
}

// ContentHash computes the deterministic digest spec.md §3 requires:
// Function/TypeDefinition hash their captured code bytes; Class hashes
// name+sorted(bases)+sorted(decorators) only, so a method body edit
// does not invalidate the class entity itself (spec.md §9, Open
// Questions: method names are deliberately excluded).
func ContentHash(e Entity) uint64 {
	switch v := e.(type) {
	case Function:
		return xxhash.Sum64String(v.Code)
	case TypeDefinition:
		return xxhash.Sum64String(v.Definition)
	case Class:
		bases := append([]string(nil), v.Bases...)
		decorators := append([]string(nil), v.Decorators...)
		sort.Strings(bases)
		sort.Strings(decorators)
		key := v.Name + ":" + strings.Join(bases, ",") + ":" + strings.Join(decorators, ",")
		return xxhash.Sum64String(key)
	default:
		// Files are not embeddable; callers should not hash them, but
		// return a stable value derived from imports rather than panic.
		return xxhash.Sum64String(strings.Join(v.(File).Imports, ","))
	}
}

// ContentHashHex renders ContentHash as a fixed-width hex string,
// convenient for metadata maps and persisted comparisons.
func ContentHashHex(e Entity) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], ContentHash(e))
	const hexDigits = "0123456789abcdef"
	out := make([]byte, 16)
	for i, b := range buf {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0x0f]
	}
	return string(out)
}

// Normalize rewrites a raw filesystem path into the repo-root-relative,
// forward-slash form spec.md §3 requires for FilePath. Paths outside
// root (including absolute paths root can't contain) are returned
// verbatim, which is what marks them as external at resolution time.
func Normalize(root, path string) string {
	rel := path
	r := strings.TrimRight(root, "/\\")
	if path == r || strings.HasPrefix(path, r+"/") || strings.HasPrefix(path, r+"\\") {
		rel = strings.TrimPrefix(path, r)
		rel = strings.TrimPrefix(rel, "/")
		rel = strings.TrimPrefix(rel, "\\")
	}
	return strings.ReplaceAll(rel, "\\", "/")
}

// ExternalID builds the id of an external placeholder node for name n.
func ExternalID(name string) string { return "external:" + name }
