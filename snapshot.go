package sparsebayes

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/sparsebayes/blobstore"
	"github.com/hupe1980/sparsebayes/codec"
	"github.com/hupe1980/sparsebayes/compress"
)

// Snapshot container layout:
//
//	magic[4] | version u8 |
//	codecLen u8 | codecName | compLen u8 | compName |
//	checksum u64 | payloadLen u64 | payload
//
// The checksum is xxhash64 over the (compressed) payload. Codec and
// compressor are selected by name on load, so the file is
// self-describing regardless of the loader's configured defaults.
var snapshotMagic = [4]byte{'S', 'B', 'R', 'M'}

const snapshotVersion = 1

// modelSnapshot is the codec-encoded payload of a fitted model.
type modelSnapshot struct {
	K          int       `json:"k"`
	Mean       []float64 `json:"mean"`
	Sigma      []float64 `json:"sigma"` // row-major k×k
	Beta       float64   `json:"beta"`
	Alpha      []float64 `json:"alpha"`
	Gamma      []float64 `json:"gamma"`
	Labels     []string  `json:"labels"`
	Retained   []uint32  `json:"retained"`
	BiasUsed   bool      `json:"bias_used"`
	Bias       float64   `json:"bias"`
	Iterations int       `json:"iterations"`
	Converged  bool      `json:"converged"`
}

// SaveToWriter writes the fitted model as a snapshot. It fails with
// ErrNotFitted before a successful Fit.
func (r *RVR) SaveToWriter(w io.Writer) error {
	start := time.Now()
	err := r.saveToWriter(w)
	r.metrics.RecordSnapshot(time.Since(start), err)
	return err
}

func (r *RVR) saveToWriter(w io.Writer) error {
	if r.fitted == nil {
		return ErrNotFitted
	}

	fm := r.fitted
	k := len(fm.mean)

	sigma := make([]float64, k*k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			sigma[i*k+j] = fm.sigma.At(i, j)
		}
	}

	snap := modelSnapshot{
		K:          k,
		Mean:       fm.mean,
		Sigma:      sigma,
		Beta:       fm.beta,
		Alpha:      fm.alpha,
		Gamma:      fm.gamma,
		Labels:     fm.labels,
		Retained:   fm.retained.ToArray(),
		BiasUsed:   fm.biasUsed,
		Bias:       fm.bias,
		Iterations: fm.iterations,
		Converged:  fm.converged,
	}

	payload, err := r.opts.codec.Marshal(snap)
	if err != nil {
		return fmt.Errorf("sparsebayes: encode snapshot: %w", err)
	}
	payload, err = r.opts.compressor.Compress(payload)
	if err != nil {
		return fmt.Errorf("sparsebayes: compress snapshot: %w", err)
	}

	var header bytes.Buffer
	header.Write(snapshotMagic[:])
	header.WriteByte(snapshotVersion)
	if err := writeName(&header, r.opts.codec.Name()); err != nil {
		return err
	}
	if err := writeName(&header, r.opts.compressor.Name()); err != nil {
		return err
	}
	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], xxhash.Sum64(payload))
	header.Write(scratch[:])
	binary.BigEndian.PutUint64(scratch[:], uint64(len(payload)))
	header.Write(scratch[:])

	if _, err := w.Write(header.Bytes()); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// SaveToFile writes the fitted model snapshot to a file.
func (r *RVR) SaveToFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := r.SaveToWriter(f); err != nil {
		_ = f.Close()
		return err
	}
	err = f.Close()
	r.logger.LogSnapshot(context.Background(), filename, err)
	return err
}

// SaveToStore writes the fitted model snapshot into a blob store.
func (r *RVR) SaveToStore(ctx context.Context, store blobstore.BlobStore, name string) error {
	var buf bytes.Buffer
	if err := r.SaveToWriter(&buf); err != nil {
		return err
	}
	err := store.Put(ctx, name, buf.Bytes())
	r.logger.LogSnapshot(ctx, name, err)
	return err
}

// NewFromReader loads a fitted model from a snapshot. The returned
// model is immediately predict-ready; calling Fit on it re-trains from
// scratch. Options configure the new instance (logger, metrics, fit
// hyperparameters for later re-training); codec and compressor for
// decoding are taken from the snapshot header, not the options.
func NewFromReader(rd io.Reader, optFns ...Option) (*RVR, error) {
	r := New(optFns...)

	start := time.Now()
	err := r.loadFromReader(rd)
	r.metrics.RecordLoad(time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RVR) loadFromReader(rd io.Reader) error {
	var head [5]byte
	if _, err := io.ReadFull(rd, head[:]); err != nil {
		return fmt.Errorf("%w: short header: %w", ErrInvalidSnapshot, err)
	}
	if !bytes.Equal(head[:4], snapshotMagic[:]) {
		return fmt.Errorf("%w: bad magic", ErrInvalidSnapshot)
	}
	if head[4] != snapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, head[4])
	}

	codecName, err := readName(rd)
	if err != nil {
		return err
	}
	compName, err := readName(rd)
	if err != nil {
		return err
	}

	c, ok := codec.ByName(codecName)
	if !ok {
		return fmt.Errorf("%w: unknown codec %q", ErrInvalidSnapshot, codecName)
	}
	comp, ok := compress.ByName(compName)
	if !ok {
		return fmt.Errorf("%w: unknown compressor %q", ErrInvalidSnapshot, compName)
	}

	var fixed [16]byte
	if _, err := io.ReadFull(rd, fixed[:]); err != nil {
		return fmt.Errorf("%w: short header: %w", ErrInvalidSnapshot, err)
	}
	checksum := binary.BigEndian.Uint64(fixed[:8])
	payloadLen := binary.BigEndian.Uint64(fixed[8:])

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(rd, payload); err != nil {
		return fmt.Errorf("%w: short payload: %w", ErrInvalidSnapshot, err)
	}
	if xxhash.Sum64(payload) != checksum {
		return fmt.Errorf("%w: checksum mismatch", ErrInvalidSnapshot)
	}

	payload, err = comp.Decompress(payload)
	if err != nil {
		return fmt.Errorf("%w: decompress: %w", ErrInvalidSnapshot, err)
	}

	var snap modelSnapshot
	if err := c.Unmarshal(payload, &snap); err != nil {
		return fmt.Errorf("%w: decode: %w", ErrInvalidSnapshot, err)
	}

	return r.restore(&snap)
}

func (r *RVR) restore(snap *modelSnapshot) error {
	k := snap.K
	if k < 1 || len(snap.Mean) != k || len(snap.Alpha) != k ||
		len(snap.Gamma) != k || len(snap.Sigma) != k*k || len(snap.Retained) != k {
		return fmt.Errorf("%w: inconsistent dimensions", ErrInvalidSnapshot)
	}

	retained := roaring.New()
	retained.AddMany(snap.Retained)

	r.fitted = &fittedModel{
		mean:       snap.Mean,
		sigma:      mat.NewSymDense(k, snap.Sigma),
		beta:       snap.Beta,
		alpha:      snap.Alpha,
		gamma:      snap.Gamma,
		labels:     snap.Labels,
		retained:   retained,
		biasUsed:   snap.BiasUsed,
		bias:       snap.Bias,
		iterations: snap.Iterations,
		converged:  snap.Converged,
	}
	return nil
}

// NewFromFile loads a fitted model from a snapshot file.
func NewFromFile(filename string, optFns ...Option) (*RVR, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r, err := NewFromReader(f, optFns...)
	if r != nil {
		r.logger.LogLoad(context.Background(), filename, err)
	}
	return r, err
}

// NewFromStore loads a fitted model snapshot from a blob store.
func NewFromStore(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*RVR, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = blob.Close() }()

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return nil, err
	}

	r, err := NewFromReader(bytes.NewReader(data), optFns...)
	if r != nil {
		r.logger.LogLoad(ctx, name, err)
	}
	return r, err
}

func writeName(w *bytes.Buffer, name string) error {
	if len(name) > 255 {
		return fmt.Errorf("sparsebayes: name too long: %q", name)
	}
	w.WriteByte(byte(len(name)))
	w.WriteString(name)
	return nil
}

func readName(rd io.Reader) (string, error) {
	var n [1]byte
	if _, err := io.ReadFull(rd, n[:]); err != nil {
		return "", fmt.Errorf("%w: short header: %w", ErrInvalidSnapshot, err)
	}
	buf := make([]byte, n[0])
	if _, err := io.ReadFull(rd, buf); err != nil {
		return "", fmt.Errorf("%w: short header: %w", ErrInvalidSnapshot, err)
	}
	return string(buf), nil
}
