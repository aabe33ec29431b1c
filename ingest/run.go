/*
 * run.go, part of confcat.
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
	"io"

	conf "github.com/rmera/confcat"
	"go.uber.org/zap"
)

// Sink stores records. *container.Container is one.
type Sink interface {
	Put(*conf.Record) error
}

// Report summarizes an ingestion run.
type Report struct {
	Records  int       //records stored
	Failures []Failure //sorted by path
}

// Run ingests every record under root into sink. Records the sink rejects (for instance,
// duplicated identifiers) are added to the failures, and the run goes on. The returned
// error is not nil only if root can't be read, or ctx is cancelled; in the latter case
// the report covers what was done until then.
func Run(ctx context.Context, root string, sink Sink, opts Options) (*Report, error) {
	log := opts.logger()
	S, err := Walk(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	defer S.Close()
	rep := new(Report)
	var putFails []Failure
	for {
		r, err := S.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rep.Failures = merge(S.Failures(), putFails)
			return rep, err
		}
		if err := sink.Put(r); err != nil {
			if e, ok := err.(conf.Error); ok {
				e.Decorate("ingest.Run")
			}
			log.Warn("not stored", zap.String("path", S.Path()), zap.Error(err))
			putFails = append(putFails, Failure{Path: S.Path(), Err: err})
			continue
		}
		rep.Records++
		if opts.OnRecord != nil {
			opts.OnRecord(r)
		}
	}
	rep.Failures = merge(S.Failures(), putFails)
	log.Info("ingestion finished", zap.String("root", root), zap.Int("records", rep.Records),
		zap.Int("skipped", len(rep.Failures)))
	return rep, nil
}

func merge(a, b []Failure) []Failure {
	ret := make([]Failure, 0, len(a)+len(b))
	ret = append(ret, a...)
	ret = append(ret, b...)
	sortFailures(ret)
	return ret
}
