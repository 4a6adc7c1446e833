package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/drivequiz/internal/pool"
)

// maxNameLen keeps cache file names well under common filesystem limits.
const maxNameLen = 180

// Kind identifies what a question's media is.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Media is a question's resolved media file.
type Media struct {
	Kind Kind
	Ref  string // reference as written in the pool
	Path string // local file
	Info *Info  // probe result; nil when probing is off or failed
}

// ProbeFunc reads metadata from a local media file.
type ProbeFunc func(path string) (*Info, error)

// Fetcher resolves media references to local files, downloading remote
// videos into a cache directory on first use.
type Fetcher struct {
	cacheDir string
	client   *http.Client
	log      *zap.Logger

	// Probe, when set, is run on resolved videos.
	Probe ProbeFunc
}

// NewFetcher creates a fetcher caching under cacheDir.
func NewFetcher(cacheDir string, client *http.Client, log *zap.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{cacheDir: cacheDir, client: client, log: log.Named("media")}
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// SafeName maps a reference to a single filesystem-safe path element.
// Separators and reserved characters become '-'; overlong names are
// shortened and suffixed with a hash of the full reference.
func SafeName(ref string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 || r == 0x7f {
			return '-'
		}
		return r
	}, ref)

	if name == "" || name == "." || name == ".." {
		name = "_"
	}
	if len(name) > maxNameLen {
		sum := sha256.Sum256([]byte(ref))
		name = name[:maxNameLen-17] + "-" + hex.EncodeToString(sum[:8])
	}
	return name
}

// CachePath returns where a remote reference is cached.
func (f *Fetcher) CachePath(ref string) string {
	return filepath.Join(f.cacheDir, SafeName(ref))
}

// Resolve returns a local path for ref. Remote references are served from
// the cache or downloaded into it; local references must exist.
func (f *Fetcher) Resolve(ctx context.Context, ref string) (string, error) {
	if !IsRemote(ref) {
		if _, err := os.Stat(ref); err != nil {
			return "", fmt.Errorf("local media %s: %w", ref, err)
		}
		return ref, nil
	}

	dst := f.CachePath(ref)
	if st, err := os.Stat(dst); err == nil && st.Size() > 0 {
		return dst, nil
	}
	if err := f.download(ctx, ref, dst); err != nil {
		return "", err
	}
	f.log.Info("media cached", zap.String("ref", ref), zap.String("path", dst))
	return dst, nil
}

// download streams url into a temp file and renames it to dst, so an
// interrupted transfer never leaves a truncated cache entry.
func (f *Fetcher) download(ctx context.Context, ref, dst string) error {
	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return fmt.Errorf("create media cache: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", ref, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", ref, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", ref, resp.Status)
	}

	tmp, err := os.CreateTemp(f.cacheDir, ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("download %s: %w", ref, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store %s: %w", dst, err)
	}
	return nil
}

// Prepare resolves the media of q. Video wins over image; if the video
// cannot be resolved the image is tried. Failures are logged and yield nil
// so the question is always shown, text-only if need be.
func (f *Fetcher) Prepare(ctx context.Context, q *pool.Question) *Media {
	if q.Video != "" {
		path, err := f.Resolve(ctx, q.Video)
		if err == nil {
			m := &Media{Kind: KindVideo, Ref: q.Video, Path: path}
			if f.Probe != nil {
				info, err := f.Probe(path)
				if err != nil {
					f.log.Debug("video probe failed", zap.String("path", path), zap.Error(err))
				} else {
					m.Info = info
				}
			}
			return m
		}
		if errors.Is(err, context.Canceled) {
			return nil
		}
		f.log.Warn("video unavailable, showing question without it",
			zap.String("ref", q.Video), zap.Error(err))
	}

	if q.Image != "" {
		path, err := f.Resolve(ctx, q.Image)
		if err != nil {
			f.log.Warn("image unavailable, showing question without it",
				zap.String("ref", q.Image), zap.Error(err))
			return nil
		}
		return &Media{Kind: KindImage, Ref: q.Image, Path: path}
	}
	return nil
}
