package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Raoof128/SCRVS/internal/cache"
	"github.com/Raoof128/SCRVS/internal/config"
	"github.com/Raoof128/SCRVS/internal/detectors"
	"github.com/Raoof128/SCRVS/internal/model"
	"github.com/Raoof128/SCRVS/internal/solidity"
)

// Engine discovers Solidity files, feeds each one through the parser and the
// detector pipeline, and applies the configured post-filters. The pipeline
// itself is stateless, so files are scanned with bounded goroutines.
type Engine struct {
	pipeline *detectors.Pipeline
	cfg      config.Config
	log      hclog.Logger
}

func New(cfg config.Config, log hclog.Logger) *Engine {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Engine{pipeline: detectors.NewPipeline(), cfg: cfg, log: log}
}

func (e *Engine) Scan(ctx context.Context, req model.ScanRequest) (*model.ScanResult, error) {
	start := time.Now()
	files, err := discoverFiles(req.Path)
	if err != nil {
		return nil, fmt.Errorf("discovering files in %s: %w", req.Path, err)
	}
	if len(files) == 0 {
		e.log.Warn("no Solidity files found", "path", req.Path)
	}

	perFile := make([][]model.Finding, len(files))
	limit := runtime.NumCPU()
	if limit < 2 {
		limit = 2
	}
	guard := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i, f := range files {
		if ctx.Err() != nil {
			break
		}
		guard <- struct{}{}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-guard }()
			perFile[i] = e.scanFile(path)
		}(i, f)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// concatenate in discovery order so output stays deterministic
	var findings []model.Finding
	for _, fileFindings := range perFile {
		findings = append(findings, fileFindings...)
	}

	findings = filterByRules(findings, e.cfg)
	findings = filterBySeverity(findings, e.cfg)
	findings = applyIgnores(findings, e.cfg)
	if req.BaselinePath != "" {
		b, err := loadBaseline(req.BaselinePath)
		if err != nil {
			e.log.Warn("could not load baseline", "path", req.BaselinePath, "error", err)
		}
		findings = filterByBaseline(findings, b)
	}

	return &model.ScanResult{Findings: findings, Files: len(files), Elapsed: time.Since(start)}, nil
}

// ScanSource runs the parser and the detector pipeline over in-memory source
// text. This is the pure core: no I/O, no shared state, fresh findings slice.
func (e *Engine) ScanSource(source, file string) []model.Finding {
	contracts := solidity.NewParser(source, e.log.Named("parser")).Parse()
	return e.pipeline.Run(contracts, source, file)
}

func (e *Engine) scanFile(path string) []model.Finding {
	source, err := e.readSource(path)
	if err != nil {
		e.log.Error("skipping unreadable file", "path", path, "error", err)
		return nil
	}

	key := cache.Key("scan-v1", path, source)
	if b, ok := cache.Load(key); ok {
		var cached []model.Finding
		if err := json.Unmarshal(b, &cached); err == nil {
			e.log.Debug("cache hit", "path", path)
			return cached
		}
	}

	findings := e.ScanSource(source, path)
	if data, err := json.Marshal(findings); err == nil {
		_ = cache.Store(key, data)
	}
	return findings
}

func (e *Engine) readSource(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if max := e.cfg.MaxFileSizeBytes; max > 0 && info.Size() > max {
		return "", fmt.Errorf("file exceeds size limit (%d > %d bytes)", info.Size(), max)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// discoverFiles returns the .sol files under root in walk order; a single
// file path is returned as-is.
func discoverFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	var out []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if filepath.Ext(d.Name()) == ".sol" {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

// Detectors exposes the pipeline's detector metadata for the rules command.
func (e *Engine) Detectors() []detectors.Detector { return e.pipeline.Detectors() }
