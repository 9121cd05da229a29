package detectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raoof128/SCRVS/internal/model"
)

func TestMissingValidation(t *testing.T) {
	source := `pragma solidity ^0.8.0;

contract Store {
    uint256 public value;

    function setValue(uint256 newValue) public {
        value = newValue;
    }
}`
	findings := detect(t, &validationDetector{}, source)
	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, "Missing Input Validation", f.Title)
	assert.Equal(t, model.SeverityMedium, f.Severity)
	assert.Equal(t, 6, f.Line)
	assert.Equal(t, "setValue", f.Function)
}

func TestValidationPresentIsClean(t *testing.T) {
	source := `pragma solidity ^0.8.0;

contract Store {
    uint256 public value;

    function setValue(uint256 newValue) public {
        require(newValue > 0);
        value = newValue;
    }
}`
	findings := detect(t, &validationDetector{}, source)
	assert.Empty(t, findings)
}

func TestCommentedValidationDoesNotCount(t *testing.T) {
	// require() inside a comment must not satisfy the check
	source := `pragma solidity ^0.8.0;

contract Store {
    uint256 public value;

    function setValue(uint256 newValue) public {
        // require(newValue > 0);
        value = newValue;
    }
}`
	findings := detect(t, &validationDetector{}, source)
	require.Len(t, findings, 1)
	assert.Equal(t, "Missing Input Validation", findings[0].Title)
}

func TestNoParametersNoValidationFinding(t *testing.T) {
	source := `pragma solidity ^0.8.0;

contract Store {
    uint256 public value;

    function reset() public {
        value = 0;
    }
}`
	findings := detect(t, &validationDetector{}, source)
	assert.Empty(t, findings)
}

func TestUnsafeArithmeticPre08(t *testing.T) {
	source := `pragma solidity ^0.4.24;

contract Math {
    function add(uint256 a, uint256 b) public returns (uint256) {
        return a + b;
    }
}`
	findings := detect(t, &validationDetector{}, source)
	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, "Potential Integer Overflow/Underflow: Addition", f.Title)
	assert.Equal(t, model.SeverityMedium, f.Severity)
	assert.Equal(t, 5, f.Line)
}

func TestGuardedArithmeticIsClean(t *testing.T) {
	source := `pragma solidity ^0.4.24;

contract Math {
    function add(uint256 a, uint256 b) public returns (uint256) {
        require(a > 0);
        return a + b;
    }
}`
	findings := detect(t, &validationDetector{}, source)
	assert.Empty(t, findings)
}

func TestArithmeticFirstUnguardedOccurrencePerOperator(t *testing.T) {
	source := `contract Math {
    uint256 public total;

    function calc(uint256 a, uint256 b) public {
        total = a + b;
        total = b + a;
    }
}`
	findings := detect(t, &validationDetector{}, source)
	require.Len(t, findings, 2)
	assert.Equal(t, []string{
		"Missing Input Validation",
		"Potential Integer Overflow/Underflow: Addition",
	}, titles(findings))
	// only the first unguarded addition is reported
	assert.Equal(t, 5, findings[1].Line)
}

func TestPragmaOverflowChecks(t *testing.T) {
	tests := []struct {
		pragma string
		safe   bool
	}{
		{"pragma solidity ^0.8.0;", true},
		{"pragma solidity >=0.8.0 <0.9.0;", true},
		{"pragma solidity ~0.8.17;", true},
		{"pragma solidity 0.8.21;", true},
		{"pragma solidity ^0.4.24;", false},
		{"pragma solidity 0.7.6;", false},
		{"pragma solidity 1.0;", true},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.pragma, func(t *testing.T) {
			assert.Equal(t, tt.safe, pragmaHasOverflowChecks(tt.pragma))
		})
	}
}

func TestHardcodedAddress(t *testing.T) {
	source := `pragma solidity ^0.8.0;

contract Fixed {
    // 0x1234567890AbcdEF1234567890aBcDeF12345678 is the old treasury
    address constant TREASURY = 0x1234567890AbcdEF1234567890aBcDeF12345678;
}`
	findings := detect(t, &validationDetector{}, source)
	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, "Hardcoded Address", f.Title)
	assert.Equal(t, model.SeverityLow, f.Severity)
	assert.Equal(t, 5, f.Line)
	assert.Contains(t, f.Description, "0x1234567890AbcdEF1234567890aBcDeF12345678")
}
