// Package schedule reads release schedules and derives the chart intervals
// drawn for them.
//
// A schedule is an ordered mapping from version label to VersionRecord.
// Order matters: it is the order bars are emitted in, so documents are
// decoded through yaml.Node rather than into Go maps. JSON documents go
// through the same decoder.
package schedule

import (
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// DefaultReleaseType is the type given to a sub-release without one.
const DefaultReleaseType = "active"

// VersionRecord holds the lifecycle dates of one version. Nil means the
// field was absent from the document.
type VersionRecord struct {
	Start       *Date
	LTS         *Date
	Maintenance *Date
	End         *Date
	Releases    []SubRelease
}

// SubRelease is a named event nested under a version.
type SubRelease struct {
	Label string
	Start *Date
	Type  string
	End   *Date
}

// Record is a VersionRecord together with its key in the schedule.
type Record struct {
	Label string
	VersionRecord
}

// Records is an ordered schedule.
type Records []Record

// Document is a decoded schedule file.
type Document struct {
	// Project is the optional display prefix declared by the document.
	Project string
	Records Records

	invalid []string
}

// InvalidDates lists the paths of date fields that were present but could
// not be parsed. Those fields never overlap any window.
func (d *Document) InvalidDates() []string {
	return d.invalid
}

// Load reads and decodes a schedule file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading schedule file: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing schedule file %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a YAML or JSON schedule document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UnmarshalYAML decodes either the wrapped form
//
//	project: Node.js
//	records:
//	  v18: {...}
//
// or a bare mapping of records.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	node = deref(node)
	if node.Kind != yaml.MappingNode {
		return &DecodeError{Line: node.Line, Reason: "document must be a mapping"}
	}

	recordsNode := node
	if v := lookup(node, "records"); v != nil {
		recordsNode = deref(v)
		if p := lookup(node, "project"); p != nil {
			d.Project = deref(p).Value
		}
	}

	if recordsNode.ShortTag() == "!!null" {
		return nil
	}
	if recordsNode.Kind != yaml.MappingNode {
		return &DecodeError{Path: "records", Line: recordsNode.Line, Reason: "must be a mapping"}
	}

	return eachPair(recordsNode, "records", func(key string, value *yaml.Node) error {
		rec, err := d.decodeRecord("records."+key, value)
		if err != nil {
			return err
		}
		d.Records = append(d.Records, Record{Label: key, VersionRecord: rec})
		return nil
	})
}

func (d *Document) decodeRecord(path string, node *yaml.Node) (VersionRecord, error) {
	var rec VersionRecord
	if node.Kind != yaml.MappingNode {
		return rec, &DecodeError{Path: path, Line: node.Line, Reason: "version record must be a mapping"}
	}

	rec.Start = d.date(path+".start", lookup(node, "start"))
	rec.LTS = d.date(path+".lts", lookup(node, "lts"))
	rec.Maintenance = d.date(path+".maintenance", lookup(node, "maintenance"))
	rec.End = d.date(path+".end", lookup(node, "end"))

	releases := deref(lookup(node, "releases"))
	if releases == nil || releases.ShortTag() == "!!null" {
		return rec, nil
	}
	if releases.Kind != yaml.MappingNode {
		return rec, &DecodeError{Path: path + ".releases", Line: releases.Line, Reason: "must be a mapping"}
	}

	err := eachPair(releases, path+".releases", func(key string, value *yaml.Node) error {
		rpath := path + ".releases." + key
		if value.Kind != yaml.MappingNode {
			return &DecodeError{Path: rpath, Line: value.Line, Reason: "release must be a mapping"}
		}
		r := SubRelease{
			Label: key,
			Start: d.date(rpath+".start", lookup(value, "start")),
			End:   d.date(rpath+".end", lookup(value, "end")),
			Type:  DefaultReleaseType,
		}
		if t := deref(lookup(value, "type")); t != nil && t.ShortTag() != "!!null" && t.Value != "" {
			r.Type = t.Value
		}
		rec.Releases = append(rec.Releases, r)
		return nil
	})
	return rec, err
}

func (d *Document) date(path string, node *yaml.Node) *Date {
	dt := optionalDate(deref(node))
	if dt != nil && !dt.Valid() {
		d.invalid = append(d.invalid, path)
	}
	return dt
}

// Filter keeps the records whose label, read as a semantic version, meets
// constraint (for example ">=18" or "16 - 20"). Labels that are not versions
// never match. An empty constraint keeps everything.
func (rs Records) Filter(constraint string) (Records, error) {
	if strings.TrimSpace(constraint) == "" {
		return rs, nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}

	out := make(Records, 0, len(rs))
	for _, r := range rs {
		v, err := semver.NewVersion(r.Label)
		if err != nil {
			continue
		}
		if c.Check(v) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Labels returns the record keys in schedule order.
func (rs Records) Labels() []string {
	labels := make([]string, len(rs))
	for i, r := range rs {
		labels[i] = r.Label
	}
	return labels
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return deref(n.Content[0])
	}
	return n
}

// lookup returns the value for key in a mapping node, or nil. Keys written
// in m win over keys pulled in through merge keys; earlier merge sources win
// over later ones.
func lookup(m *yaml.Node, key string) *yaml.Node {
	if m == nil {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if k := m.Content[i]; !isMerge(k) && k.Value == key {
			return m.Content[i+1]
		}
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if !isMerge(m.Content[i]) {
			continue
		}
		for _, src := range mergeSources(m.Content[i+1]) {
			if v := lookup(src, key); v != nil {
				return v
			}
		}
	}
	return nil
}

// eachPair walks a mapping in document order, rejecting repeated keys.
// Entries inherited through a merge key are visited where the merge key
// appears, unless the mapping sets them itself.
func eachPair(m *yaml.Node, path string, fn func(key string, value *yaml.Node) error) error {
	own := make(map[string]bool, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := m.Content[i]
		if isMerge(k) {
			continue
		}
		if own[k.Value] {
			return &DecodeError{Path: path + "." + k.Value, Line: k.Line, Reason: "duplicate key"}
		}
		own[k.Value] = true
	}

	merged := make(map[string]bool)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := m.Content[i]
		if !isMerge(k) {
			if err := fn(k.Value, deref(m.Content[i+1])); err != nil {
				return err
			}
			continue
		}
		for _, src := range mergeSources(m.Content[i+1]) {
			err := eachPair(src, path, func(key string, value *yaml.Node) error {
				if own[key] || merged[key] {
					return nil
				}
				merged[key] = true
				return fn(key, value)
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// isMerge reports whether k is a "<<" merge key.
func isMerge(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge"
}

// mergeSources returns the mappings a merge key refers to: a single mapping
// or a sequence of them.
func mergeSources(v *yaml.Node) []*yaml.Node {
	v = deref(v)
	if v == nil {
		return nil
	}
	switch v.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{v}
	case yaml.SequenceNode:
		var out []*yaml.Node
		for _, item := range v.Content {
			if item = deref(item); item != nil && item.Kind == yaml.MappingNode {
				out = append(out, item)
			}
		}
		return out
	}
	return nil
}
