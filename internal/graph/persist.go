package graph

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/codeloom/codeloom/internal/entity"
)

var (
	bucketNodes = []byte("nodes")
	bucketEdges = []byte("edges")
	bucketFiles = []byte("files")
	bucketMeta  = []byte("meta")
)

// storedNode is the gob-serializable form of Node; entity.Entity is an
// interface, so its concrete variant is carried alongside.
type storedNode struct {
	ID        string
	Name      string
	FilePath  string
	Kind      entity.Kind
	StartLine int
	EndLine   int
	HasPayload bool
	Function  entity.Function
	Class     entity.Class
	Type      entity.TypeDefinition
	File      entity.File
}

func init() {
	gob.Register(entity.Function{})
	gob.Register(entity.Class{})
	gob.Register(entity.TypeDefinition{})
	gob.Register(entity.File{})
}

func toStored(n Node) storedNode {
	s := storedNode{ID: n.ID, Name: n.Name, FilePath: n.FilePath, Kind: n.Kind, StartLine: n.StartLine, EndLine: n.EndLine}
	if n.Payload == nil {
		return s
	}
	s.HasPayload = true
	switch v := n.Payload.(type) {
	case entity.Function:
		s.Function = v
	case entity.Class:
		s.Class = v
	case entity.TypeDefinition:
		s.Type = v
	case entity.File:
		s.File = v
	}
	return s
}

func (s storedNode) toNode() Node {
	n := Node{ID: s.ID, Name: s.Name, FilePath: s.FilePath, Kind: s.Kind, StartLine: s.StartLine, EndLine: s.EndLine}
	if !s.HasPayload {
		return n
	}
	switch s.Kind {
	case entity.KindFunction:
		n.Payload = s.Function
	case entity.KindClass:
		n.Payload = s.Class
	case entity.KindType:
		n.Payload = s.Type
	case entity.KindFile:
		n.Payload = s.File
	}
	return n
}

// Save serializes the graph to a single bbolt file at path, per
// spec.md §4.6 ("implementation-private, round-trip fidelity is the
// only requirement"). It overwrites any existing buckets.
func (g *Graph) Save(path string) error {
	db, err := bolt.Open(path, 0o644, nil)
	if err != nil {
		return fmt.Errorf("graph: open %s: %w", path, err)
	}
	defer db.Close()

	nodes := g.AllNodes()
	edges := g.AllEdges()
	g.mu.RLock()
	byFile := make(map[string][]string, len(g.byFile))
	for filePath, ids := range g.byFile {
		sorted := make([]string, 0, len(ids))
		for id := range ids {
			sorted = append(sorted, id)
		}
		sort.Strings(sorted)
		byFile[filePath] = sorted
	}
	g.mu.RUnlock()

	return db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketNodes, bucketEdges, bucketFiles, bucketMeta} {
			if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
		}
		nb, err := tx.CreateBucket(bucketNodes)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			buf, err := encodeGob(toStored(n))
			if err != nil {
				return fmt.Errorf("graph: encode node %s: %w", n.ID, err)
			}
			if err := nb.Put([]byte(n.ID), buf); err != nil {
				return err
			}
		}

		eb, err := tx.CreateBucket(bucketEdges)
		if err != nil {
			return err
		}
		for i, e := range edges {
			buf, err := encodeGob(e)
			if err != nil {
				return fmt.Errorf("graph: encode edge %d: %w", i, err)
			}
			key := fmt.Sprintf("%012d", i)
			if err := eb.Put([]byte(key), buf); err != nil {
				return err
			}
		}

		fb, err := tx.CreateBucket(bucketFiles)
		if err != nil {
			return err
		}
		for filePath, ids := range byFile {
			if err := fb.Put([]byte(filePath), []byte(strings.Join(ids, "\n"))); err != nil {
				return err
			}
		}

		if mb, err := tx.CreateBucket(bucketMeta); err != nil {
			return err
		} else if err := mb.Put([]byte("node_count"), []byte(fmt.Sprintf("%d", len(nodes)))); err != nil {
			return err
		}
		return nil
	})
}

// Load builds and returns a new Graph from the snapshot stored at path.
func Load(path string) (*Graph, error) {
	db, err := bolt.Open(path, 0o644, nil)
	if err != nil {
		return nil, fmt.Errorf("graph: open %s: %w", path, err)
	}
	defer db.Close()

	g := New()
	err = db.View(func(tx *bolt.Tx) error {
		nb := tx.Bucket(bucketNodes)
		if nb == nil {
			return nil
		}
		cursor := nb.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var s storedNode
			if err := decodeGob(v, &s); err != nil {
				return fmt.Errorf("graph: decode node %s: %w", k, err)
			}
			n := s.toNode()
			g.nodes[n.ID] = &n
			if n.Kind != entity.KindFile && n.Kind != entity.KindExternal {
				if g.byFile[n.FilePath] == nil {
					g.byFile[n.FilePath] = make(map[string]bool)
				}
				g.byFile[n.FilePath][n.ID] = true
			}
		}

		eb := tx.Bucket(bucketEdges)
		if eb == nil {
			return nil
		}
		ec := eb.Cursor()
		for k, v := ec.First(); k != nil; k, v = ec.Next() {
			var e Edge
			if err := decodeGob(v, &e); err != nil {
				return fmt.Errorf("graph: decode edge %s: %w", k, err)
			}
			g.AddEdge(e.From, e.To, e.Type)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
