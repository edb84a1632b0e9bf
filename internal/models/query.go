package models

// AddressQuery is a parsed free-text address search. Empty fields are not
// filtered on; each set field is matched as a case-insensitive prefix.
type AddressQuery struct {
	Street string
	City   string
	State  string
	Zip    string
}

// IsEmpty reports whether no field would be filtered on.
func (q AddressQuery) IsEmpty() bool {
	return q.Street == "" && q.City == "" && q.State == "" && q.Zip == ""
}

// TopAgentQuery selects a zip ranking, optionally flagging the subject's own agent.
type TopAgentQuery struct {
	Zip        string
	AgentName  string
	AgentPhone string
	Limit      int
}
