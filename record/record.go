// Package record is a basic append-only recorder for transition traces,
// backed by a write-ahead log. The trace of a failing replay can be
// inspected after the test run without re-executing the system under test.
package record

import (
	"io"

	"github.com/pkg/errors"
	"github.com/tidwall/wal"
	"gopkg.in/yaml.v3"
)

// Entry is one recorded transition of a replay.
//
// Transition and State are the formatted representations of the applied
// transition and the reference state after it; the engine treats both types
// as opaque, so no richer encoding is available here.
type Entry struct {
	Index      int    `yaml:"index"`
	Transition string `yaml:"transition"`
	State      string `yaml:"state"`
}

// Recorder appends trace entries to a log directory.
type Recorder struct {
	log       *wal.Log
	nextIndex uint64
}

// Open opens the trace log at path, creating it if necessary. New entries
// are appended after any existing ones.
func Open(path string) (*Recorder, error) {
	log, err := wal.Open(path, &wal.Options{
		NoSync: true,
		NoCopy: true,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "could not open trace log")
	}

	lastIndex, err := log.LastIndex()
	if err != nil {
		log.Close()
		return nil, errors.WithMessage(err, "could not read last index")
	}

	return &Recorder{
		log:       log,
		nextIndex: lastIndex + 1,
	}, nil
}

// Step records one applied transition. Implements the executor's Tracer.
func (r *Recorder) Step(index int, transition, state string) error {
	data, err := yaml.Marshal(&Entry{
		Index:      index,
		Transition: transition,
		State:      state,
	})
	if err != nil {
		return errors.WithMessage(err, "could not encode trace entry")
	}
	if err := r.log.Write(r.nextIndex, data); err != nil {
		return errors.WithMessagef(err, "could not write trace entry %d", r.nextIndex)
	}
	r.nextIndex++
	return nil
}

func (r *Recorder) Sync() error {
	return r.log.Sync()
}

func (r *Recorder) Close() error {
	return r.log.Close()
}

// Iterator reads recorded entries back in order.
type Iterator struct {
	currentIndex uint64
	stopIndex    uint64
	log          *wal.Log
}

// Iterator returns an iterator over all entries currently in the log.
func (r *Recorder) Iterator() (*Iterator, error) {
	firstIndex, err := r.log.FirstIndex()
	if err != nil {
		return nil, errors.WithMessage(err, "could not read first index")
	}
	lastIndex, err := r.log.LastIndex()
	if err != nil {
		return nil, errors.WithMessage(err, "could not read last index")
	}
	return &Iterator{
		currentIndex: firstIndex,
		stopIndex:    lastIndex,
		log:          r.log,
	}, nil
}

// LoadNext returns the next entry, or io.EOF when the log is exhausted.
func (i *Iterator) LoadNext() (*Entry, error) {
	if i.currentIndex == 0 || i.currentIndex > i.stopIndex {
		return nil, io.EOF
	}

	data, err := i.log.Read(i.currentIndex)
	if err != nil {
		return nil, errors.WithMessagef(err, "could not read index %d", i.currentIndex)
	}

	entry := &Entry{}
	if err := yaml.Unmarshal(data, entry); err != nil {
		return nil, errors.WithMessage(err, "error decoding trace entry, is the log corrupt?")
	}

	i.currentIndex++

	return entry, nil
}
