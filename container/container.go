/*
 * container.go, part of confcat.
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

package container

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
	conf "github.com/rmera/confcat"
	"go.uber.org/zap"
)

// Key addresses a record in a container: pressure group, temperature group and identifier.
type Key struct {
	Pressure    string
	Temperature string
	ID          string
}

func (K Key) String() string {
	return "P" + K.Pressure + "/T" + K.Temperature + "/" + K.ID
}

// KeyOf returns the key under which the record r is stored.
func KeyOf(r *conf.Record) Key {
	return Key{
		Pressure:    conf.GroupKey(r.Pressure().Value),
		Temperature: conf.GroupKey(r.Temperature().Value),
		ID:          r.ID(),
	}
}

// Filter selects groups in List. A nil field matches every group.
type Filter struct {
	Pressure    *float64
	Temperature *float64
}

// Val returns a pointer to v. It makes filters less verbose to write.
func Val(v float64) *float64 {
	return &v
}

func (F Filter) match(pkey, tkey string) bool {
	if F.Pressure != nil && conf.GroupKey(*F.Pressure) != pkey {
		return false
	}
	if F.Temperature != nil && conf.GroupKey(*F.Temperature) != tkey {
		return false
	}
	return true
}

// Group is a pressure/temperature pair with the number of records stored for it.
type Group struct {
	Pressure    float64
	Temperature float64
	Key         Key //with an empty ID
	Count       int
}

// Options for opening or reading a container.
type Options struct {
	Units     conf.Units //for new containers. If set, it must match the units of an existing container.
	Overwrite bool       //Put replaces records with the same key instead of failing.
	ReadOnly  bool
	Codec     Codec //Auto: from the name for new files, as found for existing ones.
	Level     int   //compression level, 0 for the codec default.
	Logger    *zap.Logger
}

// Container is a set of configuration records stored under
// pressure group / temperature group / identifier. It is safe for concurrent use.
type Container struct {
	mu     sync.Mutex
	f      *os.File //nil for containers that live in memory only
	name   string
	opts   Options
	codec  Codec
	header header
	groups tree
	dirty  bool
	closed bool
	log    *zap.Logger
}

func (O Options) logger() *zap.Logger {
	if O.Logger == nil {
		return zap.NewNop()
	}
	return O.Logger
}

func newContainer(opts Options) *Container {
	units := opts.Units
	if units == (conf.Units{}) {
		units = conf.DefaultUnits()
	}
	return &Container{
		opts:   opts,
		codec:  opts.Codec,
		header: header{id: uuid.NewString(), units: units},
		groups: make(tree),
		log:    opts.logger(),
	}
}

// Open opens the container file name, creating it if it doesn't exist (unless opts.ReadOnly).
// The file is kept open until Close is called. Errors caused by a file that can't be read
// as a container wrap ErrCorrupt.
func Open(name string, opts Options) (*Container, error) {
	flags := os.O_RDWR | os.O_CREATE
	if opts.ReadOnly {
		flags = os.O_RDONLY
	}
	if opts.Units != (conf.Units{}) {
		if err := opts.Units.Check(); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(name, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("can't open container: %w", err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("can't read container %s: %w", name, err)
	}
	var C *Container
	if len(data) == 0 {
		C = newContainer(opts)
		if C.codec == Auto {
			C.codec = CodecFor(name)
		}
		C.dirty = !opts.ReadOnly //so an empty container gets written on Close.
	} else {
		C, err = load(data, opts)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("container %s: %w", name, err)
		}
	}
	C.f = f
	C.name = name
	C.log.Debug("opened container", zap.String("name", name), zap.String("id", C.header.id),
		zap.Int("records", C.groups.len()), zap.Stringer("codec", C.codec))
	return C, nil
}

// Read reads a container from r. The container lives in memory, use WriteTo to save it.
// This is what to use when the container comes from a remote store.
func Read(r io.Reader, opts Options) (*Container, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("can't read container: %w", err)
	}
	return load(data, opts)
}

// New returns an empty container that lives in memory.
func New(opts Options) *Container {
	C := newContainer(opts)
	if C.codec == Auto {
		C.codec = Zstd
	}
	return C
}

func load(data []byte, opts Options) (*Container, error) {
	raw, codec, err := decompress(data)
	if err != nil {
		return nil, err
	}
	p, err := decodePayload(raw)
	if err != nil {
		return nil, err
	}
	if opts.Units != (conf.Units{}) && opts.Units != p.units {
		return nil, fmt.Errorf("container uses %s/%s, but %s/%s were requested",
			p.units.Pressure, p.units.Temperature, opts.Units.Pressure, opts.Units.Temperature)
	}
	C := &Container{
		opts:   opts,
		codec:  opts.Codec,
		header: p.header,
		groups: p.groups,
		log:    opts.logger(),
	}
	if C.codec == Auto {
		C.codec = codec
	}
	return C, nil
}

func (C *Container) usable(write bool) error {
	if C.closed {
		return ErrClosed
	}
	if write && C.opts.ReadOnly {
		return ErrReadOnly
	}
	return nil
}

// ID returns the identifier of the container, assigned when it was created.
func (C *Container) ID() string { return C.header.id }

// Units returns the pressure and temperature units of the records in the container.
func (C *Container) Units() conf.Units { return C.header.units }

// Name returns the file name of the container, or an empty string for a container in memory.
func (C *Container) Name() string { return C.name }

// Len returns the number of records in the container.
func (C *Container) Len() int {
	C.mu.Lock()
	defer C.mu.Unlock()
	return C.groups.len()
}

// Put adds the record r to the container. It returns a *DuplicateIdentifierError if there is
// already a record with the same key, unless the container was opened with Overwrite.
func (C *Container) Put(r *conf.Record) error {
	if r == nil {
		return fmt.Errorf("Put: given nil record")
	}
	C.mu.Lock()
	defer C.mu.Unlock()
	if err := C.usable(true); err != nil {
		return err
	}
	u := C.header.units
	if r.Pressure().Unit != u.Pressure || r.Temperature().Unit != u.Temperature {
		return fmt.Errorf("record %s is in %s/%s, the container in %s/%s", r.ID(),
			r.Pressure().Unit, r.Temperature().Unit, u.Pressure, u.Temperature)
	}
	k := KeyOf(r)
	if err := C.groups.insert(k, r, C.opts.Overwrite); err != nil {
		return err
	}
	C.dirty = true
	C.log.Debug("stored record", zap.Stringer("key", k), zap.String("source", r.Source()))
	return nil
}

// Get returns the record with the given identifier in the given pressure and temperature
// groups, or a *NotFoundError.
func (C *Container) Get(id string, pressure, temperature float64) (*conf.Record, error) {
	return C.GetKey(Key{Pressure: conf.GroupKey(pressure), Temperature: conf.GroupKey(temperature), ID: id})
}

// GetKey returns the record stored under k, or a *NotFoundError.
func (C *Container) GetKey(k Key) (*conf.Record, error) {
	C.mu.Lock()
	defer C.mu.Unlock()
	if err := C.usable(false); err != nil {
		return nil, err
	}
	r := C.groups.get(k)
	if r == nil {
		return nil, &NotFoundError{Key: k}
	}
	return r, nil
}

// Delete removes a record from the container. It returns a *NotFoundError if the
// record is not there.
func (C *Container) Delete(id string, pressure, temperature float64) error {
	k := Key{Pressure: conf.GroupKey(pressure), Temperature: conf.GroupKey(temperature), ID: id}
	C.mu.Lock()
	defer C.mu.Unlock()
	if err := C.usable(true); err != nil {
		return err
	}
	if !C.groups.remove(k) {
		return &NotFoundError{Key: k}
	}
	C.dirty = true
	return nil
}

// List returns the keys of the records in the groups selected by f, ordered by
// pressure, temperature and identifier.
func (C *Container) List(f Filter) []Key {
	C.mu.Lock()
	defer C.mu.Unlock()
	ret := make([]Key, 0)
	for _, pk := range sortedKeys(C.groups) {
		for _, tk := range sortedKeys(C.groups[pk]) {
			if !f.match(pk, tk) {
				continue
			}
			for _, id := range sortedKeys(C.groups[pk][tk]) {
				ret = append(ret, Key{Pressure: pk, Temperature: tk, ID: id})
			}
		}
	}
	return ret
}

// Groups returns every pressure/temperature group in the container with its record
// count, ordered by pressure and temperature.
func (C *Container) Groups() []Group {
	C.mu.Lock()
	defer C.mu.Unlock()
	var ret []Group
	for _, pk := range sortedKeys(C.groups) {
		for _, tk := range sortedKeys(C.groups[pk]) {
			p, _ := strconv.ParseFloat(pk, 64)
			t, _ := strconv.ParseFloat(tk, 64)
			ret = append(ret, Group{
				Pressure:    p,
				Temperature: t,
				Key:         Key{Pressure: pk, Temperature: tk},
				Count:       len(C.groups[pk][tk]),
			})
		}
	}
	return ret
}

// Walk calls f for every record, in the order given by List. It stops at the
// first error returned by f, and returns it.
func (C *Container) Walk(f func(Key, *conf.Record) error) error {
	keys := C.List(Filter{})
	for _, k := range keys {
		C.mu.Lock()
		r := C.groups.get(k)
		C.mu.Unlock()
		if r == nil {
			continue //removed meanwhile
		}
		if err := f(k, r); err != nil {
			return err
		}
	}
	return nil
}

type countWriter struct {
	w io.Writer
	n int64
}

func (W *countWriter) Write(p []byte) (int, error) {
	n, err := W.w.Write(p)
	W.n += int64(n)
	return n, err
}

// WriteTo writes the compressed container to w. It implements io.WriterTo.
func (C *Container) WriteTo(w io.Writer) (int64, error) {
	C.mu.Lock()
	defer C.mu.Unlock()
	if err := C.usable(false); err != nil {
		return 0, err
	}
	cw := &countWriter{w: w}
	err := C.write(cw)
	return cw.n, err
}

func (C *Container) write(w io.Writer) error {
	z, err := newWriter(C.codec, w, C.opts.Level)
	if err != nil {
		return err
	}
	if _, err := z.Write(encodePayload(C.header, C.groups)); err != nil {
		z.Close()
		return err
	}
	return z.Close()
}

// Flush writes the container to its file, if there are changes. It does nothing for
// containers in memory.
func (C *Container) Flush() error {
	C.mu.Lock()
	defer C.mu.Unlock()
	return C.flush()
}

func (C *Container) flush() error {
	if err := C.usable(false); err != nil {
		return err
	}
	if C.f == nil || !C.dirty {
		return nil
	}
	if C.opts.ReadOnly {
		return ErrReadOnly
	}
	f, err := C.replace()
	if err != nil {
		return err
	}
	C.f.Close()
	C.f = f
	C.dirty = false
	C.log.Debug("flushed container", zap.String("name", C.name), zap.Int("records", C.groups.len()))
	return nil
}

//replace writes the container to a temporary file in the same directory, and renames
//it to the container's name. The file on disk is either the old or the new container.
//It returns the new file, still open.
func (C *Container) replace() (*os.File, error) {
	tmp, err := os.CreateTemp(filepath.Dir(C.name), "."+filepath.Base(C.name)+".*")
	if err != nil {
		return nil, fmt.Errorf("can't write container: %w", err)
	}
	fail := func(err error) (*os.File, error) {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}
	if st, err := C.f.Stat(); err == nil {
		if err := tmp.Chmod(st.Mode().Perm()); err != nil {
			return fail(err)
		}
	}
	if err := C.write(tmp); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmp.Name(), C.name); err != nil {
		return fail(err)
	}
	return tmp, nil
}

// Close flushes the container and releases its file. The container can't be used after this.
func (C *Container) Close() error {
	C.mu.Lock()
	defer C.mu.Unlock()
	if C.closed {
		return nil
	}
	err := C.flush()
	if C.f != nil {
		if cerr := C.f.Close(); err == nil {
			err = cerr
		}
	}
	C.closed = true
	return err
}

//tree methods

func (T tree) len() int {
	n := 0
	for _, ts := range T {
		for _, recs := range ts {
			n += len(recs)
		}
	}
	return n
}

func (T tree) get(k Key) *conf.Record {
	return T[k.Pressure][k.Temperature][k.ID]
}

func (T tree) insert(k Key, r *conf.Record, overwrite bool) error {
	ts, ok := T[k.Pressure]
	if !ok {
		ts = make(map[string]map[string]*conf.Record)
		T[k.Pressure] = ts
	}
	recs, ok := ts[k.Temperature]
	if !ok {
		recs = make(map[string]*conf.Record)
		ts[k.Temperature] = recs
	}
	if _, ok := recs[k.ID]; ok && !overwrite {
		return &DuplicateIdentifierError{Key: k, Source: r.Source()}
	}
	recs[k.ID] = r
	return nil
}

func (T tree) remove(k Key) bool {
	recs := T[k.Pressure][k.Temperature]
	if _, ok := recs[k.ID]; !ok {
		return false
	}
	delete(recs, k.ID)
	if len(recs) == 0 {
		delete(T[k.Pressure], k.Temperature)
	}
	if len(T[k.Pressure]) == 0 {
		delete(T, k.Pressure)
	}
	return true
}

//keyLess orders group keys numerically. Keys that are not numbers
//go after those that are, in lexicographic order.
func keyLess(a, b string) bool {
	fa, erra := strconv.ParseFloat(a, 64)
	fb, errb := strconv.ParseFloat(b, 64)
	switch {
	case erra == nil && errb == nil && fa != fb:
		return fa < fb
	case erra == nil && errb != nil:
		return true
	case erra != nil && errb == nil:
		return false
	}
	return a < b
}
