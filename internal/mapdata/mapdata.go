// Package mapdata loads the building graph the dev map server routes over.
package mapdata

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/7mk4a/college-map/pkg/types"
)

// nodeSpec is one entry of the YAML map file.
type nodeSpec struct {
	Name      string   `yaml:"name"`
	X         float64  `yaml:"x"`
	Y         float64  `yaml:"y"`
	Floor     int      `yaml:"floor"`
	Type      string   `yaml:"type"`
	Neighbors []string `yaml:"neighbors"`
}

type mapFile struct {
	Nodes []nodeSpec `yaml:"nodes"`
}

// Graph is the building graph: named nodes plus adjacency.
type Graph struct {
	Nodes     map[string]types.Node
	Neighbors map[string][]string
}

// Load reads and validates a YAML map file. Duplicate node names and edges
// to unknown nodes are rejected at load time, not at query time.
func Load(path string) (*Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map file: %w", err)
	}
	return Parse(raw)
}

// Parse builds a Graph from YAML bytes.
func Parse(raw []byte) (*Graph, error) {
	var mf mapFile
	if err := yaml.Unmarshal(raw, &mf); err != nil {
		return nil, fmt.Errorf("parse map file: %w", err)
	}
	if len(mf.Nodes) == 0 {
		return nil, fmt.Errorf("map file has no nodes")
	}

	g := &Graph{
		Nodes:     make(map[string]types.Node, len(mf.Nodes)),
		Neighbors: make(map[string][]string, len(mf.Nodes)),
	}

	for _, spec := range mf.Nodes {
		if spec.Name == "" {
			return nil, fmt.Errorf("map file: node with empty name")
		}
		if _, dup := g.Nodes[spec.Name]; dup {
			return nil, fmt.Errorf("map file: duplicate node %q", spec.Name)
		}
		if spec.Floor < 0 {
			return nil, fmt.Errorf("map file: node %q has negative floor %d", spec.Name, spec.Floor)
		}
		nodeType := types.NodeType(spec.Type)
		if nodeType == "" {
			nodeType = types.NodeCorridor
		}
		g.Nodes[spec.Name] = types.Node{
			Name:  spec.Name,
			X:     spec.X,
			Y:     spec.Y,
			Floor: spec.Floor,
			Type:  nodeType,
		}
		g.Neighbors[spec.Name] = spec.Neighbors
	}

	for name, neighbors := range g.Neighbors {
		for _, n := range neighbors {
			if _, ok := g.Nodes[n]; !ok {
				return nil, fmt.Errorf("map file: node %q links to unknown node %q", name, n)
			}
		}
	}
	return g, nil
}

// Sorted returns the directory sorted by name, the order the nodes endpoint
// serves them in.
func (g *Graph) Sorted() []types.Node {
	nodes := make([]types.Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return nodes
}
