package client

import (
	"fmt"
	"sort"
	"strings"
)

// InputKind is a bitmask of the input variants an endpoint accepts.
type InputKind uint8

const (
	InputBytes InputKind = 1 << iota
	InputFile
	InputURL
	InputPDF
	// InputNone marks endpoints whose payload is made of parameters only.
	InputNone

	InputImage    = InputBytes | InputFile
	InputImageURL = InputBytes | InputFile | InputURL
	InputDocument = InputBytes | InputFile | InputURL | InputPDF
)

// Has reports whether all variants in kind are accepted.
func (k InputKind) Has(kind InputKind) bool {
	return k&kind == kind
}

func (k InputKind) String() string {
	var parts []string
	for _, v := range []struct {
		kind InputKind
		name string
	}{
		{InputBytes, "bytes"},
		{InputFile, "file"},
		{InputURL, "url"},
		{InputPDF, "pdf"},
		{InputNone, "none"},
	} {
		if k.Has(v.kind) {
			parts = append(parts, v.name)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "|")
}

// Endpoint describes one remote operation declaratively.
type Endpoint struct {
	Name     string
	Path     string
	Inputs   InputKind
	Encoding Encoding

	// ImageField receives base64 payloads; defaults to "image".
	ImageField string
	// URLField receives remote references; defaults to "url".
	URLField string
	// Required lists parameters the caller must supply through Options.
	Required []string
}

func (e Endpoint) imageField() string {
	if e.ImageField == "" {
		return FieldImage
	}
	return e.ImageField
}

func (e Endpoint) urlField() string {
	if e.URLField == "" {
		return FieldURL
	}
	return e.URLField
}

// Source is the caller's input for one request. Exactly one of Data, Path, URL must be set,
// except for endpoints that accept no payload.
type Source struct {
	Data []byte
	Path string
	URL  string

	// PDF marks Data or Path as a PDF document; Page selects the page to recognize (1-based).
	PDF  bool
	Page int
}

// BytesSource wraps raw image bytes.
func BytesSource(data []byte) Source {
	if data == nil {
		data = []byte{}
	}
	return Source{Data: data}
}

// FileSource references a local file.
func FileSource(path string) Source { return Source{Path: path} }

// URLSource references a remote image.
func URLSource(url string) Source { return Source{URL: url} }

// PDFSource wraps PDF bytes with the page to recognize.
func PDFSource(data []byte, page int) Source {
	if data == nil {
		data = []byte{}
	}
	return Source{Data: data, PDF: true, Page: page}
}

// PDFFileSource references a local PDF with the page to recognize.
func PDFFileSource(path string, page int) Source {
	return Source{Path: path, PDF: true, Page: page}
}

// Kind reports which variant the source uses.
func (s Source) Kind() InputKind {
	switch {
	case s.count() == 0:
		return InputNone
	case s.PDF:
		return InputPDF
	case s.Data != nil:
		return InputBytes
	case s.Path != "":
		return InputFile
	default:
		return InputURL
	}
}

func (s Source) count() int {
	n := 0
	if s.Data != nil {
		n++
	}
	if s.Path != "" {
		n++
	}
	if s.URL != "" {
		n++
	}
	return n
}

// Validate enforces that at most one input representation is supplied.
func (s Source) Validate() error {
	if s.count() > 1 {
		return ErrMultipleSources
	}
	if s.PDF && s.URL != "" {
		return fmt.Errorf("%w: pdf from url", ErrUnsupportedInput)
	}
	if s.Page < 0 {
		return fmt.Errorf("%w: negative pdf page %d", ErrUnsupportedInput, s.Page)
	}
	return nil
}

// BuildRequest converts src and params into the canonical request for e.
func (e Endpoint) BuildRequest(src Source, params Options) (Request, error) {
	if err := src.Validate(); err != nil {
		return Request{}, err
	}

	kind := src.Kind()
	if kind == InputNone {
		if !e.Inputs.Has(InputNone) {
			return Request{}, fmt.Errorf("%w for %s", ErrNoSource, e.Name)
		}
	} else if !e.Inputs.Has(kind) {
		return Request{}, fmt.Errorf("%w: %s does not accept %s input", ErrUnsupportedInput, e.Name, kind)
	}

	for _, name := range e.Required {
		if _, ok := params[name]; !ok {
			return Request{}, fmt.Errorf("%w: %s requires %q", ErrMissingField, e.Name, name)
		}
	}

	var (
		req Request
		err error
	)

	switch {
	case kind == InputNone:
		req = NewRequest(e.Path).Merge(params)
	case kind == InputURL:
		req = FromURL(e.Path, e.urlField(), src.URL, params)
	case src.PDF:
		req, err = e.pdfRequest(src, params)
	case src.Path != "":
		req, err = FromFile(e.Path, e.imageField(), src.Path, params)
	default:
		req = FromBytes(e.Path, e.imageField(), src.Data, params)
	}
	if err != nil {
		return Request{}, err
	}

	req.Encoding = e.Encoding
	return req, nil
}

func (e Endpoint) pdfRequest(src Source, params Options) (Request, error) {
	var (
		req Request
		err error
	)
	if src.Path != "" {
		req, err = FromFile(e.Path, FieldPDFFile, src.Path, params)
		if err != nil {
			return Request{}, err
		}
	} else {
		req = FromBytes(e.Path, FieldPDFFile, src.Data, params)
	}

	if src.Page > 0 {
		req.Fields.Set(FieldPDFFileNum, src.Page)
	}
	return req, nil
}

// Catalog is a lookup table of endpoint descriptors keyed by name.
type Catalog struct {
	byName map[string]Endpoint
}

// NewCatalog builds a catalog; duplicate names are rejected.
func NewCatalog(endpoints ...Endpoint) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Endpoint, len(endpoints))}
	for _, ep := range endpoints {
		if ep.Name == "" || ep.Path == "" {
			return nil, fmt.Errorf("endpoint descriptor requires name and path: %+v", ep)
		}
		if _, dup := c.byName[ep.Name]; dup {
			return nil, fmt.Errorf("duplicate endpoint %q", ep.Name)
		}
		c.byName[ep.Name] = ep
	}
	return c, nil
}

// Lookup returns the descriptor registered under name.
func (c *Catalog) Lookup(name string) (Endpoint, error) {
	ep, ok := c.byName[name]
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %s", ErrUnknownEndpoint, name)
	}
	return ep, nil
}

// List returns all descriptors sorted by name.
func (c *Catalog) List() []Endpoint {
	out := make([]Endpoint, 0, len(c.byName))
	for _, ep := range c.byName {
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
