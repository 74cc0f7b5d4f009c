package shop

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusShipped   Status = "SHIPPED" // never stored: shipping archives the record
	StatusReturned  Status = "RETURNED"
	StatusRestocked Status = "RESTOCKED"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusShipped: true, StatusReturned: true},
	StatusReturned:  {StatusRestocked: true},
	StatusRestocked: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
