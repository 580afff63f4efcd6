package entity

// NetworkDescriptor holds one network line of the networks file.
// Tokens keeps declaration order, which is also the column order of the report.
type NetworkDescriptor struct {
	Name     string   `json:"name" yaml:"name"`
	Endpoint string   `json:"endpoint" yaml:"endpoint"`
	Tokens   []string `json:"tokens" yaml:"tokens"`
}

// CellCount is the number of report cells this network contributes per wallet.
func (n NetworkDescriptor) CellCount() int {
	return 1 + len(n.Tokens)
}
