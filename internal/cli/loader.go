package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/keyframe/internal/compiler"
	"github.com/roach88/keyframe/internal/ir"
)

// Loader error codes. Compile failures report their ir.ErrorCode instead.
const (
	ErrCodeNotFound    = "SCENE_NOT_FOUND"
	ErrCodeNotAFile    = "NOT_A_FILE"
	ErrCodeParseFailed = "PARSE_FAILED"
	ErrCodeGeneric     = "ERROR"
)

// LoadError represents an error that occurred while loading a scene file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// loadScene reads and parses the scene document at path.
func loadScene(path string) (*compiler.Scene, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("scene file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing scene file: %v", err)}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotAFile, Message: fmt.Sprintf("not a file: %s", path)}
	}

	scene, err := compiler.LoadScene(path)
	if err != nil {
		var ce *compiler.CompileError
		if errors.As(err, &ce) {
			code := string(ce.Code)
			if code == "" {
				code = ErrCodeParseFailed
			}
			return nil, &LoadError{Code: code, Message: fmt.Sprintf("%s: %s", ce.Field, ce.Message), Pos: ce.Pos}
		}
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error()}
	}
	return scene, nil
}

// errorCode returns the code to report for err.
func errorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	if code := ir.CodeOf(err); code != "" {
		return string(code)
	}
	return ErrCodeGeneric
}

// SourcePos locates an error in a scene document.
type SourcePos struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (p SourcePos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// positionOf returns where err occurred in its scene document, or nil.
func positionOf(err error) *SourcePos {
	var pos token.Pos
	var le *LoadError
	var ce *compiler.CompileError
	switch {
	case errors.As(err, &le):
		pos = le.Pos
	case errors.As(err, &ce):
		pos = ce.Pos
	}
	if !pos.IsValid() {
		return nil
	}
	return &SourcePos{File: pos.Filename(), Line: pos.Line(), Column: pos.Column()}
}

// lineOf returns the source line of a CUE position, or 0.
func lineOf(pos token.Pos) int {
	if !pos.IsValid() {
		return 0
	}
	return pos.Line()
}
