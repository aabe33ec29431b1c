/*
 * walk.go, part of confcat.
 *
 * Copyright 2026 The confcat authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	conf "github.com/rmera/confcat"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errClosed = errors.New("stream closed")

// DefaultExtensions are the coordinate file extensions recognized when Options.Extensions is empty.
var DefaultExtensions = []string{".xyz"}

// Options for an ingestion run. The zero value is ready to use.
type Options struct {
	Units      conf.Units //zero value means conf.DefaultUnits()
	Extensions []string   //matched case-insensitively, with or without the leading dot
	Workers    int        //leaf directories processed at the same time. 0 or 1 means sequential.
	Logger     *zap.Logger
	OnRecord   func(*conf.Record) //called by Run after each record is stored
}

func (O Options) units() conf.Units {
	if O.Units == (conf.Units{}) {
		return conf.DefaultUnits()
	}
	return O.Units
}

func (O Options) logger() *zap.Logger {
	if O.Logger == nil {
		return zap.NewNop()
	}
	return O.Logger
}

func (O Options) matches(name string) bool {
	exts := O.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	ext := filepath.Ext(name)
	for _, v := range exts {
		if !strings.HasPrefix(v, ".") {
			v = "." + v
		}
		if strings.EqualFold(ext, v) {
			return true
		}
	}
	return false
}

// Failure is a directory or file that was skipped, and the reason.
type Failure struct {
	Path string
	Err  error
}

func (F Failure) String() string {
	return F.Path + ": " + F.Err.Error()
}

func sortFailures(f []Failure) {
	sort.SliceStable(f, func(i, j int) bool { return f[i].Path < f[j].Path })
}

//a (pressure, temperature) directory
type leaf struct {
	dir         string
	pressure    conf.Quantity
	temperature conf.Quantity
}

type item struct {
	rec  *conf.Record
	path string
}

// Stream yields the records found under a root directory. It is not safe for
// concurrent use, and it can be consumed only once.
type Stream struct {
	items  chan item
	cancel context.CancelCauseFunc
	done   chan struct{}
	last   string
	mu     sync.Mutex
	fails  []Failure
	err    error
	log    *zap.Logger
}

// Walk starts the traversal of root, which must contain P<number>/T<number>/ directories with
// coordinate files. It only fails if root itself can't be read. Every other problem is
// recorded as a Failure and the traversal goes on.
// The stream must be closed, or consumed until Next returns io.EOF.
func Walk(ctx context.Context, root string, opts Options) (*Stream, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ingest: %s is not a directory", root)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("ingest: can't read %s: %w", root, err)
	}
	if opts.Units != (conf.Units{}) {
		if err := opts.Units.Check(); err != nil {
			return nil, fmt.Errorf("ingest: %w", err)
		}
	}
	ctx, cancel := context.WithCancelCause(ctx)
	S := &Stream{
		items:  make(chan item),
		cancel: cancel,
		done:   make(chan struct{}),
		log:    opts.logger(),
	}
	go S.produce(ctx, root, entries, opts)
	return S, nil
}

// Next returns the next record. It returns io.EOF when there are no more records, or the
// error of the context given to Walk if it was cancelled.
func (S *Stream) Next() (*conf.Record, error) {
	it, ok := <-S.items
	if !ok {
		<-S.done
		if S.err != nil {
			return nil, S.err
		}
		return nil, io.EOF
	}
	S.last = it.path
	return it.rec, nil
}

// Path returns the file the last record returned by Next came from.
func (S *Stream) Path() string {
	return S.last
}

// Failures returns the skipped paths, sorted by path. The list is complete only
// once Next has returned io.EOF.
func (S *Stream) Failures() []Failure {
	S.mu.Lock()
	defer S.mu.Unlock()
	ret := make([]Failure, len(S.fails))
	copy(ret, S.fails)
	sortFailures(ret)
	return ret
}

// Close stops the traversal and waits for it to finish. It can be called more than once.
func (S *Stream) Close() error {
	S.cancel(errClosed)
	<-S.done
	return nil
}

func (S *Stream) fail(path string, err error) {
	S.log.Warn("skipped", zap.String("path", path), zap.Error(err))
	S.mu.Lock()
	S.fails = append(S.fails, Failure{Path: path, Err: err})
	S.mu.Unlock()
}

func (S *Stream) produce(ctx context.Context, root string, entries []os.DirEntry, opts Options) {
	defer close(S.done)
	defer close(S.items)
	leaves := S.discover(root, entries, opts.units())
	S.log.Debug("found leaf directories", zap.String("root", root), zap.Int("leaves", len(leaves)))
	send := func(it item) bool {
		select {
		case S.items <- it:
			return true
		case <-ctx.Done():
			return false
		}
	}
	if opts.Workers <= 1 {
		for _, l := range leaves {
			if !S.processLeaf(ctx, l, opts, send) {
				break
			}
		}
	} else {
		S.parallel(ctx, leaves, opts, send)
	}
	if err := ctx.Err(); err != nil && !errors.Is(context.Cause(ctx), errClosed) {
		S.err = err
	}
}

//parallel processes the leaves with a bounded number of goroutines. Records are still
//sent in leaf order, so the output doesn't depend on the number of workers.
func (S *Stream) parallel(ctx context.Context, leaves []leaf, opts Options, send func(item) bool) {
	type result struct {
		items []item
		done  chan struct{}
	}
	results := make([]*result, len(leaves))
	for i := range results {
		results[i] = &result{done: make(chan struct{})}
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		for i := range leaves {
			i := i
			g.Go(func() error {
				defer close(results[i].done)
				S.processLeaf(gctx, leaves[i], opts, func(it item) bool {
					results[i].items = append(results[i].items, it)
					return true
				})
				return nil
			})
		}
		g.Wait()
	}()
	defer func() { <-dispatched }()
	for _, res := range results {
		select {
		case <-res.done:
		case <-ctx.Done():
			return
		}
		for _, it := range res.items {
			if !send(it) {
				return
			}
		}
		res.items = nil
	}
}

//discover lists the leaf directories under root, in lexicographic order.
func (S *Stream) discover(root string, entries []os.DirEntry, units conf.Units) []leaf {
	var leaves []leaf
	for _, pe := range entries {
		if !isDir(root, pe) || !conf.HasPrefix(pe.Name(), conf.PressurePrefix) {
			continue
		}
		pdir := filepath.Join(root, pe.Name())
		p, _, err := conf.Extract(pe.Name(), conf.PressurePrefix)
		if err != nil {
			S.fail(pdir, err)
			continue
		}
		tentries, err := os.ReadDir(pdir)
		if err != nil {
			S.fail(pdir, err)
			continue
		}
		for _, te := range tentries {
			if !isDir(pdir, te) || !conf.HasPrefix(te.Name(), conf.TemperaturePrefix) {
				continue
			}
			tdir := filepath.Join(pdir, te.Name())
			t, _, err := conf.Extract(te.Name(), conf.TemperaturePrefix)
			if err != nil {
				S.fail(tdir, err)
				continue
			}
			leaves = append(leaves, leaf{
				dir:         tdir,
				pressure:    conf.Q(p, units.Pressure),
				temperature: conf.Q(t, units.Temperature),
			})
		}
	}
	return leaves
}

//isDir follows symlinks.
func isDir(parent string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && info.IsDir()
}

//processLeaf reads every coordinate file in the leaf directory, in lexicographic order.
//It returns false if emit did.
func (S *Stream) processLeaf(ctx context.Context, l leaf, opts Options, emit func(item) bool) bool {
	if ctx.Err() != nil {
		return false
	}
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		S.fail(l.dir, err)
		return true
	}
	for _, e := range entries {
		if e.IsDir() || !opts.matches(e.Name()) {
			continue
		}
		if ctx.Err() != nil {
			return false
		}
		path := filepath.Join(l.dir, e.Name())
		s, err := conf.ReadXYZFile(path)
		if err != nil {
			S.fail(path, err)
			continue
		}
		rec, err := conf.NewRecord(s, l.pressure, l.temperature, path)
		if err != nil {
			S.fail(path, err)
			continue
		}
		S.log.Debug("read configuration", zap.String("path", path), zap.Int("atoms", rec.Len()))
		if !emit(item{rec: rec, path: path}) {
			return false
		}
	}
	return true
}
