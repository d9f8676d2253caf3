package cli

import (
	"path/filepath"
	"sync/atomic"

	"github.com/toyz/mirror/internal/errors"
	"github.com/toyz/mirror/internal/registry"
	"github.com/toyz/mirror/internal/utils"
	"github.com/toyz/mirror/internal/wire"
)

// Loader builds models from wire documents and keeps each built model until
// its file changes on disk
type Loader struct {
	cache   *utils.Cache[string, *registry.DomainModel]
	options []registry.Option
	loads   atomic.Int64
}

// NewLoader creates a loader that builds with opts
func NewLoader(opts ...registry.Option) *Loader {
	return &Loader{
		cache:   utils.NewCache[string, *registry.DomainModel](),
		options: opts,
	}
}

// Load returns the model stored at path. A failed build is never cached.
func (l *Loader) Load(path string) (*registry.DomainModel, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("resolve", path, err)
	}

	if model, ok := l.cache.GetWithFileValidation(key, key); ok {
		return model, nil
	}

	// stamp before reading so a write during the read invalidates the entry
	stamp, err := utils.StatFile(key)
	if err != nil {
		return nil, errors.WrapFileSystemError("stat", path, err)
	}

	l.loads.Add(1)
	model, err := wire.LoadFile(key, l.options...)
	if err != nil {
		return nil, err
	}

	l.cache.SetWithStamp(key, model, stamp)
	return model, nil
}

// Loads returns how many times a document was actually read and built
func (l *Loader) Loads() int64 {
	return l.loads.Load()
}
