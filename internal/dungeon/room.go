package dungeon

// Room is a node in the dungeon's room graph. Children lists the
// adjacent rooms reachable without passing back through the traversal
// origin, in discovery order.
type Room struct {
	Name     string
	Children []*Room
}

type edgeKey struct {
	a string
	b string
}

// Graph holds the rooms of one dungeon run and the doors between
// them. It is rebuilt wholesale whenever the feed sends a new graph
// message; the tracker only reads it.
type Graph struct {
	rooms map[string]*Room
	doors map[edgeKey]Door
}

func NewGraph() *Graph {
	return &Graph{
		rooms: map[string]*Room{},
		doors: map[edgeKey]Door{},
	}
}

// AddRoom returns the room with the given name, creating it if
// needed.
func (g *Graph) AddRoom(name string) *Room {
	if r, ok := g.rooms[name]; ok {
		return r
	}
	r := &Room{Name: name}
	g.rooms[name] = r
	return r
}

// Room looks up a room by name.
func (g *Graph) Room(name string) (*Room, bool) {
	r, ok := g.rooms[name]
	return r, ok
}

// AddChild records child in parent's child list, creating either room
// as needed.
func (g *Graph) AddChild(parent, child string) {
	p := g.AddRoom(parent)
	c := g.AddRoom(child)
	p.Children = append(p.Children, c)
}

// SetDoor stores the door connecting two rooms. The record is
// reachable from either direction.
func (g *Graph) SetDoor(a, b string, door Door) {
	door.RoomA = a
	door.RoomB = b
	g.doors[normEdge(a, b)] = door
}

// Link records child as a child of parent and stores the connecting
// door.
func (g *Graph) Link(parent, child string, door Door) {
	g.AddChild(parent, child)
	g.SetDoor(parent, child, door)
}

// DoorBetween returns the door connecting two adjacent rooms, if any.
func (g *Graph) DoorBetween(a, b *Room) (Door, bool) {
	if a == nil || b == nil {
		return Door{}, false
	}
	d, ok := g.doors[normEdge(a.Name, b.Name)]
	return d, ok
}

// SetOpened flips the opened flag on the door between two rooms.
func (g *Graph) SetOpened(a, b string, opened bool) bool {
	k := normEdge(a, b)
	d, ok := g.doors[k]
	if !ok {
		return false
	}
	d.Opened = opened
	g.doors[k] = d
	return true
}

func normEdge(a, b string) edgeKey {
	if b < a {
		a, b = b, a
	}
	return edgeKey{a: a, b: b}
}
