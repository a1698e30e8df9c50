package device

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/mdadm/internal/fs"
	"github.com/hupe1980/mdadm/internal/mmap"
	"github.com/hupe1980/mdadm/jbod"
)

// Storage holds the bytes of the array's disks.
//
// disk and block are always in range and p is exactly one block; range
// checks happen in Array.
type Storage interface {
	ReadBlock(disk, block int, p []byte) error
	WriteBlock(disk, block int, p []byte) error
	Sync() error
	Close() error
}

// MemoryStorage keeps every disk in memory.
type MemoryStorage struct {
	disks [jbod.NumDisks][jbod.DiskSize]byte
}

// NewMemoryStorage returns zero-filled in-memory disks.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) ReadBlock(disk, block int, p []byte) error {
	off := block * jbod.BlockSize
	copy(p, s.disks[disk][off:off+jbod.BlockSize])
	return nil
}

func (s *MemoryStorage) WriteBlock(disk, block int, p []byte) error {
	off := block * jbod.BlockSize
	copy(s.disks[disk][off:off+jbod.BlockSize], p)
	return nil
}

func (s *MemoryStorage) Sync() error  { return nil }
func (s *MemoryStorage) Close() error { return nil }

// FileStorage keeps each disk in its own image file (disk-00.img ... disk-15.img).
type FileStorage struct {
	files [jbod.NumDisks]fs.File
}

// DiskFileName returns the image file name of a disk.
func DiskFileName(disk int) string {
	return fmt.Sprintf("disk-%02d.img", disk)
}

// OpenFileStorage opens (creating if needed) the disk image files in dir.
// Short files are extended to DiskSize with zeros.
func OpenFileStorage(fsys fs.FileSystem, dir string) (*FileStorage, error) {
	if fsys == nil {
		fsys = fs.Default
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	s := &FileStorage{}
	for disk := range jbod.NumDisks {
		name := filepath.Join(dir, DiskFileName(disk))

		f, err := fsys.OpenFile(name, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("device: open %s: %w", name, err)
		}
		s.files[disk] = f

		info, err := f.Stat()
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		if info.Size() < jbod.DiskSize {
			if err := fsys.Truncate(name, jbod.DiskSize); err != nil {
				_ = s.Close()
				return nil, fmt.Errorf("device: size %s: %w", name, err)
			}
		}
	}
	return s, nil
}

func (s *FileStorage) ReadBlock(disk, block int, p []byte) error {
	_, err := s.files[disk].ReadAt(p[:jbod.BlockSize], int64(block)*jbod.BlockSize)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *FileStorage) WriteBlock(disk, block int, p []byte) error {
	_, err := s.files[disk].WriteAt(p[:jbod.BlockSize], int64(block)*jbod.BlockSize)
	return err
}

func (s *FileStorage) Sync() error {
	var errs []error
	for _, f := range s.files {
		if f != nil {
			errs = append(errs, f.Sync())
		}
	}
	return errors.Join(errs...)
}

func (s *FileStorage) Close() error {
	var errs []error
	for i, f := range s.files {
		if f != nil {
			errs = append(errs, f.Close())
			s.files[i] = nil
		}
	}
	return errors.Join(errs...)
}

// MappedStorage keeps the whole array in one memory-mapped image file, with
// one region per disk.
type MappedStorage struct {
	m     *mmap.Mapping
	disks [jbod.NumDisks]*mmap.Region
}

// OpenMappedStorage maps the array image at path, creating it if needed.
func OpenMappedStorage(path string) (*MappedStorage, error) {
	m, err := mmap.OpenWritable(path, jbod.MaxAddress)
	if err != nil {
		return nil, fmt.Errorf("device: map %s: %w", path, err)
	}
	if err := m.Advise(mmap.AccessRandom); err != nil {
		_ = m.Close()
		return nil, err
	}

	s := &MappedStorage{m: m}
	for disk := range jbod.NumDisks {
		r, err := m.Region(disk*jbod.DiskSize, jbod.DiskSize)
		if err != nil {
			_ = m.Close()
			return nil, err
		}
		s.disks[disk] = r
	}
	return s, nil
}

func (s *MappedStorage) ReadBlock(disk, block int, p []byte) error {
	_, err := s.disks[disk].ReadAt(p[:jbod.BlockSize], int64(block)*jbod.BlockSize)
	return err
}

func (s *MappedStorage) WriteBlock(disk, block int, p []byte) error {
	_, err := s.disks[disk].WriteAt(p[:jbod.BlockSize], int64(block)*jbod.BlockSize)
	return err
}

func (s *MappedStorage) Sync() error  { return s.m.Sync() }
func (s *MappedStorage) Close() error { return s.m.Close() }
