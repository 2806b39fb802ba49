package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"alfredoptarigan/resume-evaluator/internal/llm"
)

// ErrUnknownTool means the model asked for a tool that is not registered.
// The tool set is fixed, so this is an internal fault and is never sent
// back to the model.
var ErrUnknownTool = errors.New("unknown tool")

type ToolName string

const (
	ToolExtractPDF      ToolName = "extract_text_from_pdf"
	ToolExtractDOCX     ToolName = "extract_text_from_docx"
	ToolExtractTXT      ToolName = "extract_text_from_txt"
	ToolEnhanceEntities ToolName = "enhance_with_entities"
)

// AllTools lists every tool in the order it is advertised.
var AllTools = []ToolName{ToolExtractPDF, ToolExtractDOCX, ToolExtractTXT, ToolEnhanceEntities}

type Tool struct {
	Name        ToolName
	Description string
	Params      []llm.ToolParam
	Run         func(args map[string]any) (string, error)
}

func (t Tool) Spec() llm.ToolSpec {
	return llm.ToolSpec{Name: string(t.Name), Description: t.Description, Params: t.Params}
}

// ToolRegistry is built once and only read afterwards, so it is safe for
// concurrent use without locking.
type ToolRegistry struct {
	tools map[ToolName]Tool
	specs []llm.ToolSpec
}

// NewToolRegistry wires the extractor and enhancer into the fixed tool set.
// File tools only open paths under allowedRoot; an empty root disables the
// check.
func NewToolRegistry(extractor TextExtractor, enhancer EntityEnhancer, allowedRoot string) (*ToolRegistry, error) {
	fileTool := func(name ToolName, ext, param, kind string) Tool {
		return Tool{
			Name:        name,
			Description: fmt.Sprintf("Extracts text content from a %s file. Call this tool only if you are explicitly asked to handle a %s file path.", kind, kind),
			Params:      []llm.ToolParam{{Name: param, Description: fmt.Sprintf("Path to the %s file", kind), Required: true}},
			Run: func(args map[string]any) (string, error) {
				path, err := stringArg(args, param)
				if err != nil {
					return "", err
				}
				if err := checkWithinRoot(allowedRoot, path); err != nil {
					return "", err
				}
				return extractor.ExtractAs(path, ext)
			},
		}
	}

	return newToolRegistry(
		fileTool(ToolExtractPDF, ".pdf", "pdf_path", "PDF"),
		fileTool(ToolExtractDOCX, ".docx", "docx_path", "DOCX"),
		fileTool(ToolExtractTXT, ".txt", "txt_path", "TXT"),
		Tool{
			Name:        ToolEnhanceEntities,
			Description: "Analyzes the provided resume text chunk to extract named entities (e.g. PERSON, ORG, DATE, GPE) to aid in structured parsing.",
			Params:      []llm.ToolParam{{Name: "text", Description: "Resume text to analyse", Required: true}},
			Run: func(args map[string]any) (string, error) {
				text, err := stringArg(args, "text")
				if err != nil {
					return "", err
				}
				entities, err := enhancer.Enhance(text)
				if err != nil {
					return "", err
				}
				b, err := json.Marshal(entities)
				if err != nil {
					return "", err
				}
				return string(b), nil
			},
		},
	)
}

func newToolRegistry(tools ...Tool) (*ToolRegistry, error) {
	r := &ToolRegistry{tools: make(map[ToolName]Tool, len(tools))}
	for _, t := range tools {
		if t.Run == nil {
			return nil, fmt.Errorf("tool %s has no implementation", t.Name)
		}
		if _, dup := r.tools[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name: %s", t.Name)
		}
		r.tools[t.Name] = t
		r.specs = append(r.specs, t.Spec())
	}
	return r, nil
}

// Lookup resolves a name sent by the model.
func (r *ToolRegistry) Lookup(name string) (Tool, error) {
	t, ok := r.tools[ToolName(name)]
	if !ok {
		return Tool{}, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return t, nil
}

func (r *ToolRegistry) Specs() []llm.ToolSpec {
	out := make([]llm.ToolSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", key)
	}
	return s, nil
}

func checkWithinRoot(root, path string) error {
	if root == "" {
		return nil
	}
	absRoot, err := resolvePath(root)
	if err != nil {
		return err
	}
	absPath, err := resolvePath(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %s is outside the upload directory", path)
	}
	return nil
}

// resolvePath returns the absolute path with every symlink followed.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
