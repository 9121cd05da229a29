package detectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raoof128/SCRVS/internal/model"
)

func TestInsecureRandomnessOnePerSource(t *testing.T) {
	// block.timestamp appears twice but is reported once
	source := `contract Lottery {
    function pick() public returns (uint256) {
        uint256 a = block.timestamp % 10;
        uint256 b = block.timestamp + block.number;
        return b;
    }
}`
	findings := detect(t, &badPatternsDetector{}, source)
	require.Len(t, findings, 2)
	assert.Equal(t, []string{
		"Insecure Randomness: block.timestamp",
		"Insecure Randomness: block.number",
	}, titles(findings))
	for _, f := range findings {
		assert.Equal(t, model.SeverityHigh, f.Severity)
		assert.Equal(t, "pick", f.Function)
	}
}

func TestUnprotectedAdmin(t *testing.T) {
	source := `contract Admined {
    address public owner;

    function setOwner(address newOwner) public {
        owner = newOwner;
    }

    function transferOwnership(address newOwner) public onlyOwner {
        owner = newOwner;
    }

    function setAdmin(address a) public {
        require(msg.sender == owner);
        owner = a;
    }
}`
	findings := detect(t, &badPatternsDetector{}, source)
	require.Len(t, findings, 2)

	admin := findings[0]
	assert.Equal(t, "Unprotected Admin Function", admin.Title)
	assert.Equal(t, model.SeverityCritical, admin.Severity)
	assert.Equal(t, "setOwner", admin.Function)

	// transferOwnership is guarded, but its name is event-worthy and it never emits
	assert.Equal(t, "Missing Event Emission", findings[1].Title)
	assert.Equal(t, "transferOwnership", findings[1].Function)
}

func TestMissingEvents(t *testing.T) {
	source := `contract Token {
    mapping(address => uint256) public balances;

    function transfer(address to, uint256 amount) public {
        require(amount > 0);
        balances[to] += amount;
    }

    function mint(address to, uint256 amount) public {
        require(amount > 0);
        balances[to] += amount;
        emit Minted(to, amount);
    }
}`
	findings := detect(t, &badPatternsDetector{}, source)
	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, "Missing Event Emission", f.Title)
	assert.Equal(t, model.SeverityLow, f.Severity)
	assert.Equal(t, "transfer", f.Function)
}

func TestTxOrigin(t *testing.T) {
	source := `contract Auth {
    address owner;

    function guard() public view {
        // tx.origin must never be used here
        require(tx.origin == owner);
    }
}`
	findings := detect(t, &badPatternsDetector{}, source)
	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, "Use of tx.origin", f.Title)
	assert.Equal(t, model.SeverityHigh, f.Severity)
	assert.Equal(t, 6, f.Line)
	assert.Equal(t, "require(tx.origin == owner);", f.Snippet)
}
