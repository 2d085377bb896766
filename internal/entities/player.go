package entities

// Player is the single keeper of a session
type Player struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Avatar         string   `json:"avatar"`
	Level          int32    `json:"level"`
	XP             int32    `json:"xp"`
	Coins          int32    `json:"coins"`
	EquippedSkinID string   `json:"equipped_skin_id,omitempty"`
	OwnedSkinIDs   []string `json:"owned_skin_ids,omitempty"`
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	out := *p
	out.OwnedSkinIDs = append([]string(nil), p.OwnedSkinIDs...)
	return &out
}

// OwnsSkin reports whether the player has bought the skin
func (p *Player) OwnsSkin(skinID string) bool {
	for _, id := range p.OwnedSkinIDs {
		if id == skinID {
			return true
		}
	}
	return false
}

// GainXP adds xp and levels the player up once when the threshold of
// level*100 is crossed. It reports whether a level was gained.
func (p *Player) GainXP(xp int32) bool {
	p.XP += xp
	if p.XP >= p.Level*100 {
		p.Level++
		return true
	}
	return false
}

// GetID implements core.Entity
func (p *Player) GetID() string {
	return p.ID
}

// GetType implements core.Entity
func (p *Player) GetType() string {
	return "player"
}
