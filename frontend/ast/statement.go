package ast

// All statement types implement the Stmt interface

var (
	_ Stmt = (*VariableAssignment)(nil)
	_ Stmt = (*MemberAssignment)(nil)
	_ Stmt = (*OptionStatement)(nil)
	_ Stmt = (*BuiltinStatement)(nil)
	_ Stmt = (*ExpressionStatement)(nil)
	_ Stmt = (*ReturnStatement)(nil)
	_ Stmt = (*TestCaseStatement)(nil)
)

// Assignment is either a *VariableAssignment or a *MemberAssignment.
type Assignment interface {
	Stmt
	assignment()
}

// VariableAssignment binds a name: `x = 1`.
type VariableAssignment struct {
	Range
	ID       *Identifier
	Init     Expr
	Comments []Comment
}

func (s *VariableAssignment) stmtNode()   {}
func (s *VariableAssignment) assignment() {}

// MemberAssignment sets the member of an imported package: `pkg.x = 1`.
// It only appears inside an option statement.
type MemberAssignment struct {
	Range
	Member *MemberExpression
	Init   Expr
}

func (s *MemberAssignment) stmtNode()   {}
func (s *MemberAssignment) assignment() {}

// OptionStatement declares or overrides an option: `option now = () => 2020-01-01T00:00:00Z`.
type OptionStatement struct {
	Range
	Assignment Assignment
	Comments   []Comment
}

func (s *OptionStatement) stmtNode() {}

// BuiltinStatement declares a value implemented by the host: `builtin x: int`.
type BuiltinStatement struct {
	Range
	ID       *Identifier
	Type     *TypeExpression
	Comments []Comment
}

func (s *BuiltinStatement) stmtNode() {}

// ExpressionStatement represents an expression used as a statement.
type ExpressionStatement struct {
	Range
	Expression Expr
}

func (s *ExpressionStatement) stmtNode() {}

// ReturnStatement ends a function block.
type ReturnStatement struct {
	Range
	Argument Expr
}

func (s *ReturnStatement) stmtNode() {}

// TestCaseStatement is a named test block. It is parsed but never inferred
// as part of a package.
type TestCaseStatement struct {
	Range
	ID    *Identifier
	Block *Block
}

func (s *TestCaseStatement) stmtNode() {}

// Block is the body of a function written with braces.
type Block struct {
	Range
	Body []Stmt
}
