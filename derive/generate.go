package derive

//go:generate go run ../cmd/codegen --out derive.go
