package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bachmap/bach/tileerr"
	"github.com/bachmap/bach/tilecoord"
)

func (l *Loader) readDisk(c tilecoord.Coord, typ tilecoord.TileType) ([]byte, error) {
	if l.cfg.cacheDir == "" {
		return nil, fmt.Errorf("%w: no cache directory configured", tileerr.ErrDisk)
	}
	sub, err := tilecoord.DiskSubPath(c, typ)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(l.cfg.cacheDir, sub))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tileerr.ErrDisk, err)
	}
	return data, nil
}

// writeDiskBestEffort atomically writes data for (c, typ) to the disk
// cache via a temp-file-then-rename, so concurrent readers never observe
// a partially written file. Failure is logged by the caller; it never
// downgrades the in-memory Ok state already published.
func (l *Loader) writeDiskBestEffort(c tilecoord.Coord, typ tilecoord.TileType, data []byte) error {
	if l.cfg.cacheDir == "" {
		return fmt.Errorf("%w: no cache directory configured", tileerr.ErrDisk)
	}
	sub, err := tilecoord.DiskSubPath(c, typ)
	if err != nil {
		return err
	}
	dest := filepath.Join(l.cfg.cacheDir, sub)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("%w: %v", tileerr.ErrDisk, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tile-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", tileerr.ErrDisk, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", tileerr.ErrDisk, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", tileerr.ErrDisk, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", tileerr.ErrDisk, err)
	}
	return nil
}
