package frame

import (
	"fmt"

	"github.com/alexiusacademia/gorcf/internal/solver"
)

// Group identifies one of the six gene groups a member belongs to. Every
// member of the grid maps to exactly one group; members sharing a group
// receive the same section when a genotype is decoded.
type Group int

const (
	StandardBeam Group = iota
	RoofBeam
	BottomColumn
	CornerColumn
	InteriorColumn
	TopColumn
)

// GroupCount is the genotype length.
const GroupCount = 6

var groupNames = [GroupCount]string{
	"standard-beam",
	"roof-beam",
	"bottom-column",
	"corner-column",
	"interior-column",
	"top-column",
}

func (g Group) String() string {
	if g < 0 || int(g) >= GroupCount {
		return fmt.Sprintf("group(%d)", int(g))
	}
	return groupNames[g]
}

// IsColumn reports whether members of this group are columns.
func (g Group) IsColumn() bool { return g >= BottomColumn }

// Groups returns the gene groups in genotype order.
func Groups() [GroupCount]Group {
	return [GroupCount]Group{
		StandardBeam, RoofBeam,
		BottomColumn, CornerColumn, InteriorColumn, TopColumn,
	}
}

// MemberKind distinguishes beams from columns.
type MemberKind int

const (
	Beam MemberKind = iota
	Column
)

func (k MemberKind) String() string {
	if k == Beam {
		return "beam"
	}
	return "column"
}

// MemberInfo is the static identity of one frame member: its position in
// the analysis model, its structural role and its gene group.
type MemberInfo struct {
	Index   int // position in the analysis model and demand slices
	Kind    MemberKind
	Group   Group
	Story   int     // 1-based story the member belongs to
	Line    int     // 0-based span index (beams) or column line (columns)
	LengthM float64 // m
}

// Label names a member the way the result sheets do, e.g. "B2-1" for the
// beam at story 2, span 1 or "C1-3" for the column at story 1, line 3.
func (m MemberInfo) Label() string {
	if m.Kind == Beam {
		return fmt.Sprintf("B%d-%d", m.Story, m.Line+1)
	}
	return fmt.Sprintf("C%d-%d", m.Story, m.Line+1)
}

// Topology is the node/member layout synthesized from a grid: nodes bottom
// up and left to right, then beams story-major, then columns column-major.
// Built once per run and reused by every evaluation.
type Topology struct {
	grid    Grid
	nodes   []solver.Node
	members []MemberInfo
	beams   int // members[:beams] are beams, the rest columns
}

// NewTopology validates the grid, lays out nodes and members and checks the
// member-to-group mapping for totality.
func NewTopology(grid Grid) (*Topology, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	spans, stories := grid.Spans(), grid.Stories()

	nodes := make([]solver.Node, 0, (spans+1)*(stories+1))
	for level := 0; level <= stories; level++ {
		y := grid.ElevationM(level)
		x := 0.0
		for line := 0; line <= spans; line++ {
			nodes = append(nodes, solver.Node{X: x, Y: y, Fixed: level == 0})
			if line < spans {
				x += grid.SpansM[line]
			}
		}
	}

	members := make([]MemberInfo, 0, stories*spans+(spans+1)*stories)
	for story := 1; story <= stories; story++ {
		group := StandardBeam
		if story == stories {
			group = RoofBeam
		}
		for span := 0; span < spans; span++ {
			members = append(members, MemberInfo{
				Index:   len(members),
				Kind:    Beam,
				Group:   group,
				Story:   story,
				Line:    span,
				LengthM: grid.SpansM[span],
			})
		}
	}
	beams := len(members)

	for line := 0; line <= spans; line++ {
		for story := 1; story <= stories; story++ {
			members = append(members, MemberInfo{
				Index:   len(members),
				Kind:    Column,
				Group:   columnGroup(story, stories, line, spans),
				Story:   story,
				Line:    line,
				LengthM: grid.StoryHeightsM[story-1],
			})
		}
	}

	for _, m := range members {
		if m.Group < 0 || int(m.Group) >= GroupCount {
			return nil, fmt.Errorf("member %s maps to no gene group", m.Label())
		}
	}

	return &Topology{grid: grid, nodes: nodes, members: members, beams: beams}, nil
}

// columnGroup classifies a column. The bottom story wins over everything,
// the top story over position, middle stories split corner from interior.
func columnGroup(story, stories, line, spans int) Group {
	switch {
	case story == 1:
		return BottomColumn
	case story == stories:
		return TopColumn
	case line == 0 || line == spans:
		return CornerColumn
	default:
		return InteriorColumn
	}
}

// Grid returns the grid the topology was built from.
func (t *Topology) Grid() Grid { return t.grid }

// Members returns the member layout in model order. The slice is shared;
// callers must not modify it.
func (t *Topology) Members() []MemberInfo { return t.members }

// MemberCount returns the number of members.
func (t *Topology) MemberCount() int { return len(t.members) }

// BeamCount returns the number of beams; beams occupy the low indices.
func (t *Topology) BeamCount() int { return t.beams }

// nodeIndex maps (floor level, column line) to the node position.
func (t *Topology) nodeIndex(level, line int) int {
	return level*(t.grid.Spans()+1) + line
}

// endNodes returns the solver node indices of a member, I below/left of J.
func (t *Topology) endNodes(m MemberInfo) (int, int) {
	if m.Kind == Beam {
		return t.nodeIndex(m.Story, m.Line), t.nodeIndex(m.Story, m.Line+1)
	}
	return t.nodeIndex(m.Story-1, m.Line), t.nodeIndex(m.Story, m.Line)
}
