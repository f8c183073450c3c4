package manager

import (
	"errors"
)

// Report is the result of linting a policy file or directory.
type Report struct {
	// Path is the linted file or directory.
	Path string `json:"path"`

	// Files holds one entry per policy file.
	Files []FileReport `json:"files"`

	// Errors holds problems not tied to a single file.
	Errors []string `json:"errors,omitempty"`
}

// FileReport is the lint result for one file.
type FileReport struct {
	Path     string   `json:"path"`
	Policies []string `json:"policies"`
	Errors   []string `json:"errors,omitempty"`
}

// Valid reports whether no problems were found.
func (r *Report) Valid() bool {
	if len(r.Errors) > 0 {
		return false
	}
	for _, f := range r.Files {
		if len(f.Errors) > 0 {
			return false
		}
	}
	return true
}

// PolicyCount returns the number of valid policies found.
func (r *Report) PolicyCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Policies)
	}
	return n
}

// Lint parses and validates every policy file at path without registering
// anything. Unlike LoadFile it keeps going after the first bad file and
// reports each problem separately.
func Lint(path string) *Report {
	r := &Report{Path: path}

	files, err := policyFiles(path)
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
		return r
	}

	for _, f := range files {
		r.Files = append(r.Files, lintFile(f))
	}
	return r
}

func lintFile(path string) FileReport {
	fr := FileReport{Path: path, Policies: []string{}}

	data, err := readPolicyFile(path)
	if err != nil {
		fr.Errors = append(fr.Errors, err.Error())
		return fr
	}
	doc, err := Parse(data, path)
	if err != nil {
		fr.Errors = append(fr.Errors, err.Error())
		return fr
	}

	opts := CompileOptions{}.withDefaults()
	for i, spec := range doc.Policies {
		if _, err := compilePolicy(spec, opts); err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				verr = &ValidationError{Message: "invalid policy", Cause: err}
			}
			verr.Policy = policyLabel(spec, i)
			fr.Errors = append(fr.Errors, verr.Error())
			continue
		}
		fr.Policies = append(fr.Policies, policyLabel(spec, i))
	}
	return fr
}
