package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/odegrid/internal/ctxlog"
	"github.com/specialistvlad/odegrid/internal/fsutil"
	"github.com/specialistvlad/odegrid/internal/model"
)

// Extension is the file extension searched for in directories.
const Extension = ".hcl"

// Loader reads model files. A Loader keeps every file it parsed so that
// diagnostics can be rendered with source snippets afterwards.
type Loader struct {
	parser *hclparse.Parser
}

// New creates a new model loader.
func New() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Files returns the parsed files keyed by name, for use with
// hcl.NewDiagnosticTextWriter.
func (l *Loader) Files() map[string]*hcl.File {
	return l.parser.Files()
}

// decoded pairs a file's decoded root with its raw bytes.
type decoded struct {
	root  fileRoot
	bytes []byte
}

// Load reads the files and directories in paths into a single model. On
// failure the returned error is an hcl.Diagnostics.
func (l *Loader) Load(ctx context.Context, paths ...string) (*model.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Model loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", Extension, strings.Join(paths, ", "))
	}
	logger.Debug("Discovered model files.", "count", len(files))

	var docs []decoded
	var diags hcl.Diagnostics
	for _, file := range files {
		f, fileDiags := l.parser.ParseHCLFile(file)
		diags = append(diags, fileDiags...)
		if fileDiags.HasErrors() {
			continue
		}
		doc, decodeDiags := decode(f)
		diags = append(diags, decodeDiags...)
		if !decodeDiags.HasErrors() {
			docs = append(docs, doc)
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return l.build(ctx, defaultName(files[0]), docs)
}

// LoadSource reads a model from an in-memory file.
func (l *Loader) LoadSource(ctx context.Context, src []byte, filename string) (*model.Model, error) {
	f, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	doc, diags := decode(f)
	if diags.HasErrors() {
		return nil, diags
	}
	return l.build(ctx, defaultName(filename), []decoded{doc})
}

func decode(f *hcl.File) (decoded, hcl.Diagnostics) {
	var root fileRoot
	diags := gohcl.DecodeBody(f.Body, nil, &root)
	return decoded{root: root, bytes: f.Bytes}, diags
}

func defaultName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// build assembles the model in two phases. The first creates every
// component and variable so that the second can resolve equations written in
// any order, including references to variables in later files.
func (l *Loader) build(ctx context.Context, name string, docs []decoded) (*model.Model, error) {
	logger := ctxlog.FromContext(ctx)
	b := &builder{m: model.New(name)}

	var header *modelBlock
	for _, d := range docs {
		for _, mb := range d.root.Models {
			if header != nil {
				b.errorf(mb.DeclRange.Ptr(), "Duplicate model block", "A model block was already declared at %s.", header.DeclRange)
				continue
			}
			header = mb
		}
	}
	if header != nil {
		b.applyHeader(header)
	}

	for _, d := range docs {
		for _, cb := range d.root.Components {
			b.addComponent(cb, d.bytes)
		}
	}
	if b.diags.HasErrors() {
		return nil, b.diags
	}

	b.addAliases()
	var order []string
	if header != nil {
		order = header.StateOrder
	}
	b.promoteStates(order, header)
	if b.diags.HasErrors() {
		return nil, b.diags
	}
	b.setEquations()
	if b.diags.HasErrors() {
		return nil, b.diags
	}

	logger.Debug("Model loading complete.",
		"model", b.m.Name(),
		"components", len(b.m.Components()),
		"variables", b.m.Count(model.Filter{Deep: true}),
		"states", len(b.m.States()),
	)
	return b.m, nil
}
