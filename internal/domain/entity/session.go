package entity

// Session identifies the caller of a core operation. It is built from a
// verified identity token at the edge and passed explicitly down the stack.
type Session struct {
	UID   string
	Phone string
}

func NewSession(uid, phone string) Session {
	return Session{UID: uid, Phone: phone}
}

func (s Session) Valid() bool {
	return s.UID != ""
}
