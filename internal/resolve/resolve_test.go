package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeloom/codeloom/internal/langs"
)

func TestResolvePythonRelative(t *testing.T) {
	known := KnownFiles{"pkg/sub/helper.py": true}
	r := Resolve(langs.Python, ".sub.helper", "pkg/main.py", known)
	assert.True(t, r.IsRelative)
	assert.Equal(t, "pkg/sub/helper.py", r.ResolvedPath)
}

func TestResolvePythonAbsoluteStdlib(t *testing.T) {
	r := Resolve(langs.Python, "os.path", "pkg/main.py", KnownFiles{})
	assert.True(t, r.IsExternal)
}

func TestResolvePythonAbsoluteInternal(t *testing.T) {
	known := KnownFiles{"pkg/util.py": true}
	r := Resolve(langs.Python, "pkg.util", "pkg/main.py", known)
	assert.Equal(t, "pkg/util.py", r.ResolvedPath)
	assert.False(t, r.IsExternal)
}

func TestResolveNodeRelativeWithExtensionProbe(t *testing.T) {
	known := KnownFiles{"src/util.ts": true}
	r := Resolve(langs.TypeScript, "./util", "src/main.ts", known)
	assert.True(t, r.IsRelative)
	assert.Equal(t, "src/util.ts", r.ResolvedPath)
}

func TestResolveNodeBareSpecifierExternal(t *testing.T) {
	r := Resolve(langs.JavaScript, "react", "src/main.js", KnownFiles{})
	assert.True(t, r.IsExternal)
	assert.False(t, r.IsRelative)
}

func TestResolveGoStdlibExternal(t *testing.T) {
	r := Resolve(langs.Go, "fmt", "cmd/main.go", KnownFiles{})
	assert.True(t, r.IsExternal)
}

func TestResolveGoThirdPartyExternal(t *testing.T) {
	r := Resolve(langs.Go, "github.com/foo/bar", "cmd/main.go", KnownFiles{})
	assert.True(t, r.IsExternal)
}

func TestResolveGoInternalPackage(t *testing.T) {
	known := KnownFiles{"internal/widget/widget.go": true}
	r := Resolve(langs.Go, "codeloom/internal/widget", "cmd/main.go", known)
	assert.Equal(t, "internal/widget/widget.go", r.ResolvedPath)
	assert.False(t, r.IsExternal)
}

func TestResolveRustStdExternal(t *testing.T) {
	r := Resolve(langs.Rust, "std::collections::HashMap", "src/main.rs", KnownFiles{})
	assert.True(t, r.IsExternal)
}

func TestResolveRustCrateRelative(t *testing.T) {
	known := KnownFiles{"src/widget.rs": true}
	r := Resolve(langs.Rust, "crate::widget", "src/main.rs", known)
	assert.True(t, r.IsRelative)
	assert.Equal(t, "src/widget.rs", r.ResolvedPath)
}

func TestResolveJavaStdlibExternal(t *testing.T) {
	r := Resolve(langs.Java, "java.util.List", "src/main/java/App.java", KnownFiles{})
	assert.True(t, r.IsExternal)
}

func TestResolveJavaSourceRootProbe(t *testing.T) {
	known := KnownFiles{"src/main/java/com/acme/Widget.java": true}
	r := Resolve(langs.Java, "com.acme.Widget", "src/main/java/com/acme/App.java", known)
	assert.Equal(t, "src/main/java/com/acme/Widget.java", r.ResolvedPath)
}

func TestResolveCAngleHeaderExternal(t *testing.T) {
	r := Resolve(langs.C, "<stdio.h>", "src/main.c", KnownFiles{})
	assert.True(t, r.IsExternal)
}

func TestResolveCQuotedHeaderRelative(t *testing.T) {
	known := KnownFiles{"src/widget.h": true}
	r := Resolve(langs.C, "widget.h", "src/main.c", known)
	assert.True(t, r.IsRelative)
	assert.Equal(t, "src/widget.h", r.ResolvedPath)
}

func TestResolveDartPackageSchemeExternal(t *testing.T) {
	r := Resolve(langs.Dart, "package:flutter/material.dart", "lib/main.dart", KnownFiles{})
	assert.True(t, r.IsExternal)
}

func TestResolveDartRelative(t *testing.T) {
	known := KnownFiles{"lib/widget.dart": true}
	r := Resolve(langs.Dart, "widget.dart", "lib/main.dart", known)
	assert.True(t, r.IsRelative)
	assert.Equal(t, "lib/widget.dart", r.ResolvedPath)
}

func TestResolveUnknownLanguageDefaultsExternal(t *testing.T) {
	r := Resolve("fortran", "anything", "x.f90", KnownFiles{})
	assert.True(t, r.IsExternal)
}
