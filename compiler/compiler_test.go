package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nilan/chunk"
	"nilan/object"
)

func mustCompile(t *testing.T, source string) (*chunk.Chunk, *object.Heap) {
	t.Helper()
	heap := object.NewHeap()
	c, err := Compile(source, heap)
	if err != nil {
		t.Fatalf("Compile(%q) returned error: %v", source, err)
	}
	return c, heap
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	c, _ := mustCompile(t, "print 1 + 2 * 3;")

	want := []byte{
		byte(chunk.OpConstant), 0,
		byte(chunk.OpConstant), 1,
		byte(chunk.OpConstant), 2,
		byte(chunk.OpMultiply),
		byte(chunk.OpAdd),
		byte(chunk.OpPrint),
		byte(chunk.OpReturn),
	}
	if string(c.Code) != string(want) {
		t.Errorf("code = %v, want %v", c.Code, want)
	}
}

func TestCompileStringConcatenation(t *testing.T) {
	c, heap := mustCompile(t, `print "st" + "ri" + "ng";`)

	if c.Code[len(c.Code)-2] != byte(chunk.OpPrint) {
		t.Fatalf("expected OP_PRINT before final OP_RETURN, got %v", c.Code)
	}
	// first constant's string content has quotes stripped
	handle := c.Constants[0].AsStringHandle()
	if heap.Deref(handle) != "st" {
		t.Errorf("first string constant = %q, want %q", heap.Deref(handle), "st")
	}
}

func TestCompileVariableDeclarationAndUse(t *testing.T) {
	c, _ := mustCompile(t, `var beverage = "cafe"; print beverage;`)

	hasDefine := false
	hasGet := false
	for _, b := range c.Code {
		if chunk.OpCode(b) == chunk.OpDefineGlobal {
			hasDefine = true
		}
		if chunk.OpCode(b) == chunk.OpGetGlobal {
			hasGet = true
		}
	}
	if !hasDefine {
		t.Error("expected OP_DEFINE_GLOBAL in compiled code")
	}
	if !hasGet {
		t.Error("expected OP_GET_GLOBAL in compiled code")
	}
}

func TestCompileAssignmentEmitsSetGlobal(t *testing.T) {
	c, _ := mustCompile(t, `var a; a = 3;`)

	hasSet := false
	for _, b := range c.Code {
		if chunk.OpCode(b) == chunk.OpSetGlobal {
			hasSet = true
		}
	}
	if !hasSet {
		t.Error("expected OP_SET_GLOBAL in compiled code")
	}
}

func TestCompileReportsExpectExpression(t *testing.T) {
	_, err := Compile("1 + ;", object.NewHeap())
	if err == nil {
		t.Fatal("expected a compile error")
	}
	if !strings.Contains(err.Error(), "Expect expression.") {
		t.Errorf("error = %q, want it to mention Expect expression.", err.Error())
	}
}

func TestCompileInvalidAssignmentTarget(t *testing.T) {
	_, err := Compile("1 + 2 = 3;", object.NewHeap())
	if err == nil {
		t.Fatal("expected a compile error")
	}
	if !strings.Contains(err.Error(), "Invalid assignment target.") {
		t.Errorf("error = %q, want it to mention Invalid assignment target.", err.Error())
	}
}

func TestCompileTooManyConstants(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 300; i++ {
		b.WriteString("1;")
	}
	_, err := Compile(b.String(), object.NewHeap())
	if err == nil {
		t.Fatal("expected a compile error for constant pool overflow")
	}
	if !strings.Contains(err.Error(), "Too many constants in one chunk.") {
		t.Errorf("error = %q, want it to mention the constants ceiling", err.Error())
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	source := `var a = 1; print a + 2;`
	c1, _ := mustCompile(t, source)
	c2, _ := mustCompile(t, source)

	require.Equal(t, c1.Code, c2.Code, "compiling the same source twice should produce identical code")
	assert.Len(t, c2.Constants, len(c1.Constants))
}

func TestSynchronizeRecoversAtStatementBoundary(t *testing.T) {
	// A missing semicolon after the first statement should not suppress
	// the diagnostic from the print statement that follows it.
	_, err := Compile(`1 2; print ;`, object.NewHeap())
	if err == nil {
		t.Fatal("expected a compile error")
	}
	if !strings.Contains(err.Error(), "Expect ';' after expression.") {
		t.Errorf("error = %q, want the first statement's diagnostic", err.Error())
	}
	if !strings.Contains(err.Error(), "Expect expression.") {
		t.Errorf("error = %q, want the print statement's diagnostic", err.Error())
	}
}

func TestCompileFoldsLexicalErrorIntoCompileError(t *testing.T) {
	_, err := Compile(`print "never closes;`, object.NewHeap())
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.Truef(t, ok, "error type = %T, want *CompileError", err)
	assert.Contains(t, ce.Error(), "[line 1] Error: Unterminated string.")
}
