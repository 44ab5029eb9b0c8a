package image

import (
	"bytes"
	"fmt"
	goimage "image"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/go-drift/ace/pkg/errors"
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/logging"
	"github.com/go-drift/ace/pkg/task"
)

// Callbacks receive the results of a Provider on the UI queue.
type Callbacks struct {
	DataReady   func(src SourceInfo, obj *Object)
	LoadSuccess func(src SourceInfo)
	LoadFail    func(src SourceInfo, err error)
}

// ProviderOptions configures a Provider.
type ProviderOptions struct {
	Executor task.Executor
	// Cache may be nil to disable canvas image caching.
	Cache  *Cache
	Memory *MemoryStore
	Logger *log.Logger
}

// Provider runs image work on the executor's background and IO queues and
// posts results to the UI queue.
type Provider struct {
	executor task.Executor
	cache    *Cache
	memory   *MemoryStore
	logger   *log.Logger
	loads    singleflight.Group
}

// NewProvider creates a provider. A nil Memory gets an empty store.
func NewProvider(opts ProviderOptions) *Provider {
	p := &Provider{
		executor: opts.Executor,
		cache:    opts.Cache,
		memory:   opts.Memory,
		logger:   opts.Logger,
	}
	if p.memory == nil {
		p.memory = NewMemoryStore()
	}
	if p.logger == nil {
		p.logger = logging.Default()
	}
	return p
}

// Memory returns the store memory:// sources resolve against.
func (p *Provider) Memory() *MemoryStore { return p.memory }

// Cache returns the canvas image cache, possibly nil.
func (p *Provider) Cache() *Cache { return p.cache }

// CreateObject loads and sniffs src on the background queue and reports
// DataReady or LoadFail on the UI queue. It returns nil when the work could
// not be posted.
func (p *Provider) CreateObject(src SourceInfo, cb Callbacks) *task.CancelableTask {
	if p.executor == nil {
		errors.Precondition("image.Provider.CreateObject", src.Src, errors.ErrExecutorStopped)
		return nil
	}
	return task.PostCancelable(p.executor, func() {
		data, err := p.loadData(src)
		if err != nil {
			p.fail(src, cb, err)
			return
		}
		info, err := DecodeInfo(data)
		if err != nil {
			p.fail(src, cb, err)
			return
		}
		if src.IsSvg() {
			p.fail(src, cb, fmt.Errorf("%w: svg", errors.ErrUnsupportedSource))
			return
		}
		obj := NewObject(src, info, data)
		p.postUI(src, func() {
			if cb.DataReady != nil {
				cb.DataReady(src, obj)
			}
		})
	}, task.Background)
}

// MakeCanvasImage decodes obj at target size on the IO queue and reports
// LoadSuccess or LoadFail on the UI queue. Bytes released by ClearData are
// loaded again.
func (p *Provider) MakeCanvasImage(obj *Object, target graphics.Size, cb Callbacks) *task.CancelableTask {
	if obj == nil {
		return nil
	}
	src := obj.SourceInfo()
	if p.executor == nil {
		errors.Precondition("image.Provider.MakeCanvasImage", src.Src, errors.ErrExecutorStopped)
		return nil
	}
	return task.PostCancelable(p.executor, func() {
		key := src.CacheKey(target)
		canvas, ok := p.cache.Get(key)
		if !ok {
			var err error
			canvas, err = p.decode(obj, target)
			if err != nil {
				p.fail(src, cb, err)
				return
			}
			p.cache.Put(key, canvas)
		}
		p.postUI(src, func() {
			obj.setCanvasImage(canvas)
			if cb.LoadSuccess != nil {
				cb.LoadSuccess(src)
			}
		})
	}, task.IO)
}

func (p *Provider) decode(obj *Object, target graphics.Size) (*CanvasImage, error) {
	data := obj.Data()
	if data == nil {
		var err error
		if data, err = p.loadData(obj.SourceInfo()); err != nil {
			return nil, err
		}
		obj.SetData(data)
	}
	img, _, err := goimage.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrBrokenData, err)
	}
	return NewCanvasImage(resize(img, target, false)), nil
}

// loadData reads src once for all concurrent callers.
func (p *Provider) loadData(src SourceInfo) ([]byte, error) {
	v, err, _ := p.loads.Do(src.Src, func() (any, error) {
		loader, err := CreateLoader(src, p.memory)
		if err != nil {
			return nil, err
		}
		return loader.Load(src)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (p *Provider) fail(src SourceInfo, cb Callbacks, err error) {
	p.logger.Warn("image load failed", "src", src.String(), "err", err)
	p.postUI(src, func() {
		if cb.LoadFail != nil {
			cb.LoadFail(src, err)
		}
	})
}

func (p *Provider) postUI(src SourceInfo, fn func()) {
	if !p.executor.PostTask(fn, task.UI) {
		p.logger.Debug("image result dropped", "src", src.String())
	}
}
