package wire

import (
	"os"

	"github.com/toyz/mirror/internal/errors"
	"github.com/toyz/mirror/internal/registry"
	"github.com/toyz/mirror/internal/utils"
)

// Unmarshal parses a document without interpreting its records
func Unmarshal(data []byte, format Format) (*Document, error) {
	doc := &Document{}
	if err := CodecFor(format).Unmarshal(data, doc); err != nil {
		return nil, errors.NewWireFormatError("", "", "malformed "+format.String()+" document").WithCause(err)
	}
	return doc, nil
}

// CheckVersion verifies the document can be read by this package. A
// missing version means the current one.
func (d *Document) CheckVersion() error {
	if d.Version == "" {
		return nil
	}
	if !utils.CompatibleVersion(d.Version, Version) {
		return errors.NewVersionError(d.Version, Version)
	}
	return nil
}

// Build runs both decoding phases: Materialize, then the registry build that
// resolves every name against the complete key set. The model is returned
// only when both succeed.
func (d *Document) Build(opts ...registry.Option) (*registry.DomainModel, error) {
	if err := d.CheckVersion(); err != nil {
		return nil, err
	}
	descriptors, contexts, err := d.Materialize()
	if err != nil {
		return nil, err
	}
	opts = append([]registry.Option{registry.WithExternalNamespaces(d.ExternalNamespaces...)}, opts...)
	return registry.Build(descriptors, contexts, opts...)
}

// Decode reads a model from data
func Decode(data []byte, format Format, opts ...registry.Option) (*registry.DomainModel, error) {
	doc, err := Unmarshal(data, format)
	if err != nil {
		return nil, err
	}
	return doc.Build(opts...)
}

// Encode writes a model. Output is stable: map keys are sorted and members
// keep their declared order.
func Encode(m *registry.DomainModel, format Format) ([]byte, error) {
	data, err := CodecFor(format).Marshal(FromModel(m))
	if err != nil {
		return nil, errors.WrapWithOperation("encode", format.String()+" document", err)
	}
	return data, nil
}

// ReadFile parses the document at path, choosing the format by extension
func ReadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, errors.WrapConfigurationError("document", "select format", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	doc, err := Unmarshal(data, format)
	if err != nil {
		if wf, ok := err.(*errors.WireFormatError); ok {
			wf.WithLocation(errors.SourceLocation{File: path})
		}
		return nil, err
	}
	return doc, nil
}

// LoadFile reads and builds the model stored at path
func LoadFile(path string, opts ...registry.Option) (*registry.DomainModel, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Build(opts...)
}

// WriteFile encodes a model to path, choosing the format by extension
func WriteFile(path string, m *registry.DomainModel) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return errors.WrapConfigurationError("document", "select format", err)
	}
	data, err := Encode(m, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	return nil
}
