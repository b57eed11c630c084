package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"github.com/trebuchet-org/treb-wallet/internal/domain/config"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// hardhatArtifactsDir is searched after the Foundry output directory
const hardhatArtifactsDir = "artifacts"

// Chooser picks one option out of several
type Chooser interface {
	Choose(ctx context.Context, label string, options []string) (int, error)
}

// ArtifactLoader reads compiled contracts from Foundry or Hardhat build output
type ArtifactLoader struct {
	cfg     *config.RuntimeConfig
	chooser Chooser
	log     *slog.Logger
}

// NewArtifactLoader creates a new artifact loader
func NewArtifactLoader(cfg *config.RuntimeConfig, chooser Chooser, log *slog.Logger) *ArtifactLoader {
	return &ArtifactLoader{cfg: cfg, chooser: chooser, log: log}
}

// artifactFile covers both the Foundry and the Hardhat artifact layouts
type artifactFile struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
}

// bytecode returns the creation code, which Foundry nests under "object"
func (a *artifactFile) bytecode() (string, error) {
	raw := bytes.TrimSpace(a.Bytecode)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var obj struct {
		Object string `json:"object"`
	}
	err := json.Unmarshal(raw, &obj)
	return obj.Object, err
}

// Load resolves ref to a parsed artifact
func (l *ArtifactLoader) Load(ctx context.Context, ref usecase.ArtifactRef) (*domain.ContractArtifact, error) {
	switch {
	case ref.ABIPath != "" || ref.BinPath != "":
		return l.loadSplit(ref.ABIPath, ref.BinPath)
	case ref.Path != "":
		return l.loadFile(l.abs(ref.Path), "")
	case ref.Contract != "":
		return l.loadByName(ctx, ref.Contract)
	default:
		return nil, fmt.Errorf("%w: no artifact given", domain.ErrArtifactMissing)
	}
}

func (l *ArtifactLoader) loadSplit(abiPath, binPath string) (*domain.ContractArtifact, error) {
	if abiPath == "" || binPath == "" {
		return nil, fmt.Errorf("%w: both an ABI and a bytecode file are required", domain.ErrArtifactMissing)
	}

	abiData, err := os.ReadFile(l.abs(abiPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read ABI: %w", err)
	}
	// accept a bare ABI array or an artifact object carrying one
	if trimmed := bytes.TrimSpace(abiData); len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped artifactFile
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to parse ABI file: %w", err)
		}
		abiData = wrapped.ABI
	}

	bin, err := os.ReadFile(l.abs(binPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read bytecode: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(abiPath), filepath.Ext(abiPath))
	name = strings.TrimSuffix(name, ".abi")
	artifact, err := domain.NewContractArtifact(name, abiData, string(bin))
	if err != nil {
		return nil, err
	}
	artifact.Source = abiPath
	return artifact, nil
}

func (l *ArtifactLoader) loadFile(path, name string) (*domain.ContractArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	bytecode, err := file.bytecode()
	if err != nil {
		return nil, fmt.Errorf("failed to parse bytecode in %s: %w", path, err)
	}

	if name == "" {
		name = file.ContractName
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	artifact, err := domain.NewContractArtifact(name, file.ABI, bytecode)
	if err != nil {
		return nil, err
	}
	artifact.Source = path
	l.log.Debug("loaded artifact", "contract", name, "path", path)
	return artifact, nil
}

// candidate is an artifact file found in the build output
type candidate struct {
	Name string
	// Source is the directory Foundry names after the source file, e.g. Counter.sol
	Source string
	Path   string
}

func (c candidate) display() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Source)
}

// loadByName finds "Name" or "Source.sol:Name" in the build output
func (l *ArtifactLoader) loadByName(ctx context.Context, key string) (*domain.ContractArtifact, error) {
	source, name := "", key
	if i := strings.LastIndex(key, ":"); i >= 0 {
		source, name = filepath.Base(key[:i]), key[i+1:]
	}

	all, err := l.scan()
	if err != nil {
		return nil, err
	}

	matches := lo.Filter(all, func(c candidate, _ int) bool {
		return c.Name == name && (source == "" || c.Source == source)
	})

	switch len(matches) {
	case 0:
		return nil, l.notFound(key, all)
	case 1:
		return l.loadFile(matches[0].Path, matches[0].Name)
	}

	if l.cfg.NonInteractive || l.chooser == nil {
		options := lo.Map(matches, func(c candidate, _ int) string { return c.Source + ":" + c.Name })
		return nil, fmt.Errorf("multiple artifacts named %s, use one of: %s", name, strings.Join(options, ", "))
	}

	options := lo.Map(matches, func(c candidate, _ int) string { return c.display() })
	idx, err := l.chooser.Choose(ctx, fmt.Sprintf("Multiple contracts named %s found. Select one", name), options)
	if err != nil {
		return nil, err
	}
	return l.loadFile(matches[idx].Path, matches[idx].Name)
}

// scan lists artifact files under the build output directories
func (l *ArtifactLoader) scan() ([]candidate, error) {
	dirs := []string{l.abs(l.cfg.OutDir()), l.abs(hardhatArtifactsDir)}

	var found []candidate
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "build-info" {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
				return nil
			}
			found = append(found, candidate{
				Name:   strings.TrimSuffix(d.Name(), ".json"),
				Source: filepath.Base(filepath.Dir(path)),
				Path:   path,
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("%w: no build output in %s (run forge build first)", domain.ErrArtifactMissing, strings.Join(dirs, ", "))
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found, nil
}

// notFound builds an error that suggests close contract names
func (l *ArtifactLoader) notFound(key string, all []candidate) error {
	names := lo.Uniq(lo.Map(all, func(c candidate, _ int) string { return c.Name }))
	matches := fuzzy.Find(key, names)

	suggestions := make([]string, 0, 3)
	for _, m := range matches {
		if len(suggestions) == cap(suggestions) {
			break
		}
		suggestions = append(suggestions, m.Str)
	}

	err := fmt.Errorf("%w: contract %q not found in build output", domain.ErrArtifactMissing, key)
	if len(suggestions) > 0 {
		return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(suggestions, ", "))
	}
	return err
}

func (l *ArtifactLoader) abs(path string) string {
	if filepath.IsAbs(path) || l.cfg.ProjectRoot == "" {
		return path
	}
	return filepath.Join(l.cfg.ProjectRoot, path)
}

// Ensure the loader implements the interface
var _ usecase.ArtifactLoader = (*ArtifactLoader)(nil)
