package commando

// Bullet is a projectile fired from the cannon.
type Bullet struct {
	ID      uint64  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"` // Units per frame
	VY      float64 `json:"vy"`
	Variant string  `json:"variant"`
}

// Enemy is an alien approaching from the right edge.
type Enemy struct {
	ID      uint64  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Variant string  `json:"variant"`
}

// Store owns every live bullet and enemy. Identifiers come from one counter
// shared by both kinds and never go backwards, not even across resets.
type Store struct {
	Bullets []Bullet
	Enemies []Enemy
	nextID  uint64
}

// NewStore creates an empty store whose first identifier is 1.
func NewStore() *Store {
	return &Store{nextID: 1}
}

func (s *Store) allocID() uint64 {
	id := s.nextID
	s.nextID++
	return id
}

// AddBullet appends a bullet and returns its identifier.
func (s *Store) AddBullet(b Bullet) uint64 {
	b.ID = s.allocID()
	s.Bullets = append(s.Bullets, b)
	return b.ID
}

// AddEnemy appends an enemy and returns its identifier.
func (s *Store) AddEnemy(e Enemy) uint64 {
	e.ID = s.allocID()
	s.Enemies = append(s.Enemies, e)
	return e.ID
}

// Clear drops every entity. The identifier counter is kept.
func (s *Store) Clear() {
	s.Bullets = s.Bullets[:0]
	s.Enemies = s.Enemies[:0]
}

// NextID returns the identifier the next entity will get.
func (s *Store) NextID() uint64 {
	return s.nextID
}
