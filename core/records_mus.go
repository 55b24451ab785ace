package core

import (
	"errors"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// ErrBadLength is returned when an encoded slice length is negative or
// exceeds the remaining input.
var ErrBadLength = errors.New("mus: bad slice length")

// MUS serializers for the persisted record types.
var (
	FragmentMUS      = fragmentMUS{}
	FragmentBatchMUS = fragmentBatchMUS{}
	ArtifactInfoMUS  = artifactInfoMUS{}
)

type fragmentMUS struct{}

func (s fragmentMUS) Marshal(v Fragment, bs []byte) (n int) {
	n = ord.String.Marshal(v.Text, bs)
	n += ord.String.Marshal(v.Metadata.SourceFilename, bs[n:])
	return n + ord.String.Marshal(v.Metadata.FragmentKind, bs[n:])
}

func (s fragmentMUS) Unmarshal(bs []byte) (v Fragment, n int, err error) {
	v.Text, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Metadata.SourceFilename, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata.FragmentKind, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s fragmentMUS) Size(v Fragment) (size int) {
	size = ord.String.Size(v.Text)
	size += ord.String.Size(v.Metadata.SourceFilename)
	return size + ord.String.Size(v.Metadata.FragmentKind)
}

type fragmentBatchMUS struct{}

func (s fragmentBatchMUS) Marshal(v FragmentBatch, bs []byte) (n int) {
	n = ord.String.Marshal(v.Basename, bs)
	n += ord.String.Marshal(v.Category, bs[n:])
	n += varint.Int.Marshal(len(v.Fragments), bs[n:])
	for _, f := range v.Fragments {
		n += FragmentMUS.Marshal(f, bs[n:])
	}
	return n
}

func (s fragmentBatchMUS) Unmarshal(bs []byte) (v FragmentBatch, n int, err error) {
	v.Basename, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var length int
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	// every fragment takes at least three bytes
	if length < 0 || length > (len(bs)-n)/3 {
		err = ErrBadLength
		return
	}
	v.Fragments = make([]Fragment, length)
	for i := 0; i < length; i++ {
		v.Fragments[i], n1, err = FragmentMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s fragmentBatchMUS) Size(v FragmentBatch) (size int) {
	size = ord.String.Size(v.Basename)
	size += ord.String.Size(v.Category)
	size += varint.Int.Size(len(v.Fragments))
	for _, f := range v.Fragments {
		size += FragmentMUS.Size(f)
	}
	return size
}

type artifactInfoMUS struct{}

// BuiltAt is stored as Unix microseconds.
func (s artifactInfoMUS) Marshal(v ArtifactInfo, bs []byte) (n int) {
	n = ord.String.Marshal(v.BuildID, bs)
	n += ord.String.Marshal(v.Model, bs[n:])
	n += varint.Int.Marshal(v.Dimension, bs[n:])
	n += varint.Int.Marshal(v.Count, bs[n:])
	n += ord.String.Marshal(string(v.Digest), bs[n:])
	return n + varint.Int64.Marshal(v.BuiltAt.UnixMicro(), bs[n:])
}

func (s artifactInfoMUS) Unmarshal(bs []byte) (v ArtifactInfo, n int, err error) {
	v.BuildID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Dimension, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var digest string
	digest, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Digest = []byte(digest)
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.BuiltAt = time.UnixMicro(micros).UTC()
	return
}

func (s artifactInfoMUS) Size(v ArtifactInfo) (size int) {
	size = ord.String.Size(v.BuildID)
	size += ord.String.Size(v.Model)
	size += varint.Int.Size(v.Dimension)
	size += varint.Int.Size(v.Count)
	size += ord.String.Size(string(v.Digest))
	return size + varint.Int64.Size(v.BuiltAt.UnixMicro())
}
