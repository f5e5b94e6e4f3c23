package format

import "github.com/pkg/errors"

var (
	// Capacity
	ErrCapacity              = errors.New("archive holds at most 255 entries")
	ErrFileTooLarge          = errors.New("file exceeds the 65535 byte entry limit")
	ErrArchiveTooLarge       = errors.New("archive exceeds the 65535 byte addressable limit")
	ErrNameCollisionOverflow = errors.New("more than 999 files share one short name")
	ErrEmptyName             = errors.New("file name has no alphanumeric characters")
	ErrDuplicateName         = errors.New("short name already used in this archive")

	// Format
	ErrBadMagic           = errors.New("not a ZAR archive (bad magic)")
	ErrUnsupportedVersion = errors.New("unsupported ZAR version")
	ErrTruncated          = errors.New("archive is truncated")
	ErrLayout             = errors.New("directory entry does not follow the packed layout")

	// I/O
	ErrShortPayload = errors.New("source size changed while archiving")
	ErrNoSuchEntry  = errors.New("no such entry")
)
