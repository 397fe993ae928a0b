// Command scopedump decodes DBF3 records, tag-walk bodies and compact-wire
// frames from files and prints them as YAML.
//
//	scopedump -format dbflat record.bin
//	scopedump -format frame -v frame1.bin frame2.bin
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/readscope"
	"github.com/rawbytedev/readscope/pkg/compactwire"
	"github.com/rawbytedev/readscope/pkg/dbflat"
)

type config struct {
	format  string
	tag     int
	verbose bool
	files   []string
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("scopedump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.format, "format", "dbflat", "input format: dbflat, walk or frame")
	fs.IntVar(&cfg.tag, "tag", -1, "print only this tag (dbflat and walk)")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	cfg.files = fs.Args()
	switch cfg.format {
	case "dbflat", "walk", "frame":
	default:
		return config{}, fmt.Errorf("unknown format %q", cfg.format)
	}
	if len(cfg.files) == 0 {
		return config{}, errors.New("no input files")
	}
	if cfg.tag > 0xFFFF {
		return config{}, fmt.Errorf("tag %d out of range", cfg.tag)
	}
	return cfg, nil
}

type recordReport struct {
	File   string            `yaml:"file"`
	Header *dbflat.Header    `yaml:"header,omitempty"`
	Slots  []dbflat.Slot     `yaml:"slots,omitempty"`
	Fields map[uint16]string `yaml:"fields"`
}

type frameReport struct {
	File       string                      `yaml:"file"`
	Type       string                      `yaml:"type"`
	Flags      byte                        `yaml:"flags,omitempty"`
	Offsets    []uint32                    `yaml:"offsets,omitempty,flow"`
	Segments   []string                    `yaml:"segments,omitempty"`
	Payload    string                      `yaml:"payload,omitempty"`
	Error      *compactwire.ErrorFrame     `yaml:"error,omitempty"`
	Handshake  *compactwire.HandshakeFrame `yaml:"handshake,omitempty"`
	PayloadLen int                         `yaml:"payload_len,omitempty"`
}

func hexFields(m map[uint16][]byte) map[uint16]string {
	out := make(map[uint16]string, len(m))
	for tag, p := range m {
		out[tag] = hex.EncodeToString(p)
	}
	return out
}

func dumpRecord(name string, cfg config) (any, error) {
	rec, err := readscope.LoadFile(name, func(s readscope.Scope) (dbflat.Record, error) {
		return dbflat.Parse(s, dbflat.Options{})
	})
	if err != nil {
		return nil, err
	}
	r := rec.Get()
	logrus.WithFields(logrus.Fields{
		"file":  name,
		"size":  len(rec.Data()),
		"slots": r.Slots().Len(),
		"flags": fmt.Sprintf("%#x", r.Header.Flags),
	}).Debug("parsed record")

	rep := recordReport{File: name, Header: &r.Header}
	for sl := range r.Slots().Values() {
		rep.Slots = append(rep.Slots, sl)
	}
	if cfg.tag >= 0 {
		tag := uint16(cfg.tag)
		var p []byte
		if r.Header.IsHot(tag) && !r.Header.Walked() {
			p, err = r.HotField(tag)
		} else {
			p, err = r.Field(tag)
		}
		if err != nil {
			return nil, err
		}
		rep.Fields = hexFields(map[uint16][]byte{tag: p})
		return rep, nil
	}
	fields, err := r.Fields()
	if err != nil {
		return nil, err
	}
	rep.Fields = hexFields(fields)
	return rep, nil
}

func dumpWalk(name string, cfg config) (any, error) {
	body, err := readscope.LoadFile(name, func(s readscope.Scope) (readscope.Scope, error) {
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	s := *body.Get()
	if cfg.tag >= 0 {
		p, err := dbflat.Find(s, uint16(cfg.tag), dbflat.Options{})
		if err != nil {
			return nil, err
		}
		return recordReport{File: name, Fields: hexFields(map[uint16][]byte{uint16(cfg.tag): p})}, nil
	}
	fields, err := dbflat.Collect(s, dbflat.Options{})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"file": name, "entries": len(fields)}).Debug("walked body")
	return recordReport{File: name, Fields: hexFields(fields)}, nil
}

func dumpFrame(name string, _ config) (any, error) {
	fr, err := readscope.LoadFile(name, compactwire.Decode)
	if err != nil {
		return nil, err
	}
	rep := frameReport{File: name}
	switch f := (*fr.Get()).(type) {
	case compactwire.DataFrame:
		rep.Type = "data"
		rep.Flags = f.Flags
		rep.PayloadLen = f.Payload.Len()
		rep.Payload = hex.EncodeToString(f.Payload.Data())
		for i, off := range f.Offsets.All() {
			rep.Offsets = append(rep.Offsets, off)
			seg, err := f.Segment(i)
			if err != nil {
				return nil, err
			}
			rep.Segments = append(rep.Segments, hex.EncodeToString(seg.Data()))
		}
	case compactwire.ErrorFrame:
		rep.Type = "error"
		rep.Error = &f
	case compactwire.HandshakeFrame:
		rep.Type = "handshake"
		rep.Handshake = &f
	}
	logrus.WithFields(logrus.Fields{"file": name, "type": rep.Type}).Debug("decoded frame")
	return rep, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "scopedump:", err)
		}
		return 2
	}
	logrus.SetOutput(stderr)
	if cfg.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	dump := dumpRecord
	switch cfg.format {
	case "walk":
		dump = dumpWalk
	case "frame":
		dump = dumpFrame
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	defer enc.Close()

	status := 0
	for _, name := range cfg.files {
		rep, err := dump(name, cfg)
		if err != nil {
			logrus.WithError(err).WithField("file", name).Error("decode failed")
			status = 1
			continue
		}
		if err := enc.Encode(rep); err != nil {
			logrus.WithError(err).Error("write failed")
			return 1
		}
	}
	return status
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
