package export

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"path"
	"time"

	"github.com/causegraph/cgraph/graph"
	"github.com/causegraph/cgraph/layout"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const (
	PositionsFile = "positions.bin"
	LinksFile     = "links.bin"
	LabelsFile    = "labels.json"
	MetaFile      = "meta.json"

	binaryVersion = 1
)

// Meta describes a binary graph export.
type Meta struct {
	Date      int64  `json:"date"`
	NodeCount int    `json:"nodeCount"`
	LinkCount int    `json:"linkCount"`
	NodeFile  string `json:"nodeFile,omitempty"`
	LinkFile  string `json:"linkFile"`
	Version   int    `json:"version"`
}

// MarshalBinary renders the compact binary layout used by graph viewers:
// little endian int32 x,y,z triples per node in label order, an int32
// link stream where -(i+1) opens the outgoing links of node i and each
// following (j+1) is a target, a json array of node ids, and a json
// metadata record. Positions are only written when a layout ran; nodes
// without a position are written at the origin.
func MarshalBinary(g *graph.Graph, positions layout.Positions, dir string) ([]Artifact, error) {
	index := make(map[string]int32, g.Len())
	labels := make([]string, 0, g.Len())
	posBuf := &bytes.Buffer{}
	missing := 0

	for idx, n := range g.Nodes() {
		index[n.ID] = int32(idx)
		labels = append(labels, n.ID)

		if positions == nil {
			continue
		}
		pos, ok := positions[n.ID]
		if !ok {
			missing++
		}
		for _, coord := range []float64{pos.X, pos.Y, pos.Z} {
			if err := binary.Write(posBuf, binary.LittleEndian, toInt32(coord)); err != nil {
				return nil, errors.Wrap(err, "problem writing positions")
			}
		}
	}
	grip.WarningWhen(missing > 0, message.Fields{
		"message": "nodes without layout positions written at origin",
		"graph":   g.Name,
		"count":   missing,
	})

	outgoing := make(map[string][]string, g.Len())
	for _, e := range g.Edges() {
		outgoing[e.From] = append(outgoing[e.From], e.To)
	}

	linkBuf := &bytes.Buffer{}
	for _, n := range g.Nodes() {
		targets := outgoing[n.ID]
		if len(targets) == 0 {
			continue
		}

		stream := make([]int32, 0, len(targets)+1)
		stream = append(stream, -(index[n.ID] + 1))
		for _, to := range targets {
			stream = append(stream, index[to]+1)
		}
		if err := binary.Write(linkBuf, binary.LittleEndian, stream); err != nil {
			return nil, errors.Wrap(err, "problem writing links")
		}
	}

	labelData, err := json.Marshal(labels)
	if err != nil {
		return nil, errors.Wrap(err, "problem encoding labels")
	}

	meta := Meta{
		Date:      time.Now().UnixNano() / int64(time.Millisecond),
		NodeCount: g.Len(),
		LinkCount: len(g.Edges()),
		LinkFile:  LinksFile,
		Version:   binaryVersion,
	}
	out := []Artifact{}
	if positions != nil {
		meta.NodeFile = PositionsFile
		out = append(out, Artifact{Name: path.Join(dir, PositionsFile), Data: posBuf.Bytes()})
	}

	metaData, err := json.Marshal(meta)
	if err != nil {
		return nil, errors.Wrap(err, "problem encoding metadata")
	}

	return append(out,
		Artifact{Name: path.Join(dir, LinksFile), Data: linkBuf.Bytes()},
		Artifact{Name: path.Join(dir, LabelsFile), Data: labelData},
		Artifact{Name: path.Join(dir, MetaFile), Data: metaData},
	), nil
}

func toInt32(f float64) int32 {
	switch {
	case math.IsNaN(f):
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	default:
		return int32(math.Round(f))
	}
}
