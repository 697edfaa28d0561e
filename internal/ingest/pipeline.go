package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rohmanhakim/askpdf/internal/batch"
	"github.com/rohmanhakim/askpdf/internal/chunk"
	"github.com/rohmanhakim/askpdf/internal/extract"
	"github.com/rohmanhakim/askpdf/internal/guard"
	"github.com/rohmanhakim/askpdf/internal/metadata"
	"github.com/rohmanhakim/askpdf/internal/store"
	"github.com/rohmanhakim/askpdf/pkg/failure"
	"github.com/rohmanhakim/askpdf/pkg/fileutil"
	"github.com/rohmanhakim/askpdf/pkg/hashutil"
)

/*
Pipeline ingests documents into the chunk store.

Per document, in order:
  - validate extension and size
  - copy into the upload directory (when one is configured)
  - extract text
  - split into chunks with ids "<file>_chunk_<i>"
  - store the chunks together with the file's content hash

Every document is one batch item. A document that fails at any step is
reported in the batch result and never stops the others.
*/

// ChunkWriter is the part of the store the pipeline needs.
type ChunkWriter interface {
	AddChunks(ctx context.Context, chunks []store.Chunk) *failure.Error
}

var _ ChunkWriter = (*store.SQLiteStore)(nil)

type Pipeline struct {
	sink              metadata.Sink
	writer            ChunkWriter
	extractor         extract.Extractor
	splitter          chunk.Splitter
	allowedExtensions []string
	maxFileSizeMB     int
	uploadDir         string
	concurrency       int
}

type Option func(*Pipeline)

// WithUploadDir makes the pipeline copy every source into dir first and
// ingest the copy.
func WithUploadDir(dir string) Option {
	return func(p *Pipeline) {
		p.uploadDir = dir
	}
}

func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		p.concurrency = n
	}
}

func NewPipeline(
	sink metadata.Sink,
	writer ChunkWriter,
	splitter chunk.Splitter,
	allowedExtensions []string,
	maxFileSizeMB int,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		sink:              sink,
		writer:            writer,
		extractor:         extract.NewRegistry(),
		splitter:          splitter,
		allowedExtensions: allowedExtensions,
		maxFileSizeMB:     maxFileSizeMB,
		concurrency:       1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest runs every path as one batch item. Item identifiers are the file
// base names. Uploads and chunk ids are keyed by base name too, so only the
// first path with a given base name is ingested; every repeat fails with a
// validation error.
func (p *Pipeline) Ingest(ctx context.Context, paths []string) batch.Result[Report] {
	items := make([]batch.Item[source], len(paths))
	firstSeen := make(map[string]string, len(paths))
	for i, path := range paths {
		name := filepath.Base(path)
		src := source{path: path}
		if first, ok := firstSeen[name]; ok {
			src.duplicateOf = first
		} else {
			firstSeen[name] = path
		}
		items[i] = batch.Item[source]{ID: name, Input: src}
	}
	return batch.Run(ctx, p.sink, items, p.ingestSource,
		batch.WithConcurrency(p.concurrency),
		batch.WithRules(guard.DefaultRules()...),
	)
}

type source struct {
	path string
	// set when an earlier item in the same batch has the same base name
	duplicateOf string
}

func (p *Pipeline) ingestSource(ctx context.Context, src source) (Report, error) {
	if src.duplicateOf != "" {
		name := filepath.Base(src.path)
		return Report{}, failure.New(
			failure.KindValidation,
			failure.CodeValidationError,
			fmt.Sprintf("%s has the same file name as %s in this batch", src.path, src.duplicateOf),
			failure.Details{
				metadata.AttrIdentifier: name,
				metadata.AttrPath:       src.path,
				"duplicate_of":          src.duplicateOf,
			},
		)
	}
	return p.Document(ctx, src.path)
}

// Document ingests a single file. Failures are classified where they are
// detected when possible; the rest is left to the calling boundary.
func (p *Pipeline) Document(ctx context.Context, path string) (Report, error) {
	filename := filepath.Base(path)

	if err := fileutil.ValidateFileType(filename, p.allowedExtensions); err != nil {
		return Report{}, err
	}
	size, ferr := fileutil.Stat(path)
	if ferr != nil {
		return Report{}, ferr
	}
	if err := fileutil.ValidateFileSize(size, p.maxFileSizeMB); err != nil {
		return Report{}, err
	}

	if p.uploadDir != "" {
		stored, err := p.upload(path)
		if err != nil {
			return Report{}, err
		}
		path = stored
	}

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	doc, xerr := p.extractor.Extract(path)
	if xerr != nil {
		return Report{}, xerr
	}

	digest, err := hashutil.HashFile(path, hashutil.DefaultAlgo)
	if err != nil {
		return Report{}, fmt.Errorf("hashing %s: %w", filename, err)
	}

	texts := p.splitter.Split(doc.Text())
	if len(texts) == 0 {
		return Report{}, failure.New(
			failure.KindFile,
			failure.CodePDFProcessingError,
			fmt.Sprintf("%s produced no chunks", filename),
			failure.Details{metadata.AttrFilename: filename},
		)
	}

	chunks := make([]store.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = store.Chunk{
			ID:      ChunkID(filename, i),
			Source:  filename,
			Index:   i,
			Content: text,
			Hash:    digest,
		}
	}

	if err := p.writer.AddChunks(ctx, chunks); err != nil {
		return Report{}, err
	}

	return Report{
		Filename: filename,
		Path:     path,
		Title:    doc.Title(),
		Pages:    doc.Pages(),
		Chunks:   len(chunks),
		Hash:     digest,
	}, nil
}

func (p *Pipeline) upload(src string) (string, *failure.Error) {
	if p.inUploadDir(src) {
		return src, nil
	}

	in, err := os.Open(src)
	if err != nil {
		return "", failure.Wrap(
			failure.KindFile,
			failure.CodeFileUploadError,
			fmt.Sprintf("cannot read %s: %v", src, err),
			err,
			failure.Details{metadata.AttrPath: src},
		)
	}
	defer in.Close()

	return fileutil.SaveUpload(p.uploadDir, filepath.Base(src), in)
}

// inUploadDir reports whether src already lives in the upload directory.
// Unresolvable paths are treated as outside it so the copy still happens.
func (p *Pipeline) inUploadDir(src string) bool {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(p.uploadDir)
	if err != nil {
		return false
	}
	return filepath.Dir(absSrc) == absDir
}

// ChunkID names the i-th chunk of a file.
func ChunkID(filename string, i int) string {
	return fmt.Sprintf("%s_chunk_%d", filename, i)
}
