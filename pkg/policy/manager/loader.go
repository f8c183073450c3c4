package manager

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"mercator-hq/logtap/pkg/console"
	"mercator-hq/logtap/pkg/pathmatch"
	"mercator-hq/logtap/pkg/policy/engine"

	"gopkg.in/yaml.v3"
)

// MaxFileSize is the largest policy file accepted.
const MaxFileSize = 10 * 1024 * 1024

// Extensions are the policy file extensions picked up from directories.
var Extensions = []string{".yaml", ".yml"}

// Parse decodes a policy document. Unknown fields are rejected. file is
// only used in errors.
func Parse(data []byte, file string) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, &ParseError{
			FilePath: file,
			Line:     errorLine(err),
			Message:  "YAML parsing failed",
			Cause:    err,
		}
	}
	return &doc, nil
}

var lineRe = regexp.MustCompile(`line (\d+)`)

// errorLine extracts the first line number mentioned by a yaml error.
func errorLine(err error) int {
	m := lineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// Compile validates specs and converts them to engine policies.
func Compile(doc *Document, opts CompileOptions) ([]engine.Policy, error) {
	opts = opts.withDefaults()

	out := make([]engine.Policy, 0, len(doc.Policies))
	errList := &ErrorList{}

	for i, spec := range doc.Policies {
		p, err := compilePolicy(spec, opts)
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				verr = &ValidationError{Message: "invalid policy", Cause: err}
			}
			verr.Policy = policyLabel(spec, i)
			errList.Add(verr)
			continue
		}
		out = append(out, p)
	}

	if errList.HasErrors() {
		return nil, errList.ToError()
	}
	return out, nil
}

func compilePolicy(spec PolicySpec, opts CompileOptions) (engine.Policy, error) {
	p := engine.Policy{
		Name:     spec.Name,
		Paths:    spec.Path.Patterns(),
		Disabled: spec.Disabled,
	}

	if spec.Method != nil {
		p.Methods = make([]console.Key, 0, len(spec.Method))
		for _, m := range spec.Method {
			if m == "" {
				return p, &ValidationError{FieldPath: "method", Message: "method name is empty"}
			}
			p.Methods = append(p.Methods, console.Name(m))
		}
	}

	for i, path := range spec.Path {
		if err := pathmatch.Validate(path.Pattern); err != nil {
			return p, &ValidationError{
				FieldPath: fmt.Sprintf("path[%d]", i),
				Message:   fmt.Sprintf("invalid pattern (line %d)", path.line),
				Cause:     err,
			}
		}
	}

	transform, err := compileSteps(spec.Transform, opts)
	if err != nil {
		return p, err
	}
	p.Transform = transform

	return p, nil
}

func policyLabel(spec PolicySpec, i int) string {
	if spec.Name != "" {
		return strconv.Quote(spec.Name)
	}
	return fmt.Sprintf("#%d", i)
}

// LoadFile reads policies from a file, or from every policy file below a
// directory in lexical order.
func LoadFile(path string, opts CompileOptions) ([]engine.Policy, error) {
	files, err := policyFiles(path)
	if err != nil {
		return nil, err
	}

	var out []engine.Policy
	errList := &ErrorList{}
	for _, f := range files {
		policies, err := loadOne(f, opts)
		if err != nil {
			errList.Add(err)
			continue
		}
		out = append(out, policies...)
	}

	if errList.HasErrors() {
		return nil, errList.ToError()
	}
	return out, nil
}

func loadOne(path string, opts CompileOptions) ([]engine.Policy, error) {
	data, err := readPolicyFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	policies, err := Compile(doc, opts)
	if err != nil {
		return nil, withFile(err, path)
	}
	return policies, nil
}

// withFile stamps validation errors with the file they came from.
func withFile(err error, path string) error {
	var list *ErrorList
	if errors.As(err, &list) {
		for _, e := range list.Errors {
			var verr *ValidationError
			if errors.As(e, &verr) {
				verr.FilePath = path
			}
		}
		return err
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		verr.FilePath = path
	}
	return err
}

// readPolicyFile performs file size and UTF-8 validation.
func readPolicyFile(path string) ([]byte, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, statError(path, err)
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, &LoadError{
			FilePath: path,
			Message:  "not a regular file",
		}
	}

	if fileInfo.Size() > MaxFileSize {
		return nil, &LoadError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", fileInfo.Size(), MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			FilePath: path,
			Message:  "failed to read file",
			Cause:    err,
		}
	}

	if !utf8.Valid(data) {
		return nil, &LoadError{
			FilePath: path,
			Message:  "file contains invalid UTF-8 encoding",
		}
	}

	return data, nil
}

func statError(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return &LoadError{FilePath: path, Message: "file not found", Cause: err}
	case os.IsPermission(err):
		return &LoadError{FilePath: path, Message: "permission denied", Cause: err}
	default:
		return &LoadError{FilePath: path, Message: "failed to access file", Cause: err}
	}
}

// policyFiles returns path itself, or the policy files below it when it is
// a directory. Hidden files and directories are skipped.
func policyFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, statError(path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && hasPolicyExtension(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "failed to walk directory", Cause: err}
	}

	sort.Strings(files)
	return files, nil
}

func hasPolicyExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range Extensions {
		if ext == valid {
			return true
		}
	}
	return false
}
