package kadena

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Fallback values applied when the optional transfer fields are left empty
const (
	defaultGasPrice = "1.0e-6"
	defaultGasLimit = "2300"
	defaultTTL      = "600"
	defaultNonce    = ""
)

// accountPrefix marks a single-key account name; the firmware works with the
// bare public key, so it is stripped before any length or format check
const accountPrefix = "k:"

var matchRecipient = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

var (
	ErrRecipientFormat  = errors.New("Recipient must be a 64 character hex public key")
	ErrIncompleteModule = errors.New("Namespace is set but module is not")
	ErrSameChain        = errors.New("Recipient chain id must differ from sender chain id")
)

// normalizeTransfer validates a transfer request and resolves it into the
// exact textual fields that are encoded for the device and embedded in the
// command document. It is pure: no device interaction happens before it
// succeeds, and it is re-run on every signing call.
//
// For the two same-chain variants the recipient chain id is forced to "0";
// the firmware ignores the field there and expects that literal value.
func normalizeTransfer(p TransferTxParams, recipientChainID uint32, crossChain bool) (normalizedFields, error) {

	var nf normalizedFields

	// Single-key account names carry the bare key after the marker
	recipient := strings.TrimPrefix(p.Recipient, accountPrefix)

	if !matchRecipient.MatchString(recipient) {
		return nf, ErrRecipientFormat
	}

	// A custom transfer contract needs both halves of its reference
	if p.Namespace != "" && p.Module == "" {
		return nf, ErrIncompleteModule
	}

	// Numeric fields arrive as text; reject anything the Pact interpreter
	// would not read as a number
	for _, check := range []struct {
		name, value string
	}{
		{"amount", p.Amount},
		{"gasPrice", p.GasPrice},
		{"gasLimit", p.GasLimit},
		{"ttl", p.TTL},
	} {
		if check.value == "" && check.name != "amount" {
			continue
		}
		if _, err := decimal.NewFromString(check.value); err != nil {
			return nf, errors.Errorf("Invalid %s: not a number", check.name)
		}
	}

	if crossChain && recipientChainID == p.ChainID {
		return nf, ErrSameChain
	}

	nf = normalizedFields{
		recipient:        recipient,
		recipientChainID: "0",
		network:          p.Network,
		amount:           normalizeDecimal(p.Amount),
		namespace:        p.Namespace,
		module:           p.Module,
		gasPrice:         p.GasPrice,
		gasLimit:         p.GasLimit,
		creationTime:     strconv.FormatInt(p.CreationTime, 10),
		chainID:          strconv.FormatUint(uint64(p.ChainID), 10),
		nonce:            p.Nonce,
		ttl:              p.TTL,
	}

	if crossChain {
		nf.recipientChainID = strconv.FormatUint(uint64(recipientChainID), 10)
	}
	if nf.gasPrice == "" {
		nf.gasPrice = defaultGasPrice
	}
	if nf.gasLimit == "" {
		nf.gasLimit = defaultGasLimit
	}
	if nf.ttl == "" {
		nf.ttl = defaultTTL
	}
	if nf.nonce == "" {
		nf.nonce = defaultNonce
	}
	if p.CreationTime == 0 {
		nf.creationTime = strconv.FormatInt(time.Now().Unix(), 10)
	}

	if err := checkLengths(nf); err != nil {
		return normalizedFields{}, err
	}

	return nf, nil
}

// checkLengths enforces the firmware buffer budgets of fieldMaxLen on every
// normalized field. The recipient budget is an exact requirement; all others
// are upper bounds.
func checkLengths(nf normalizedFields) error {

	for _, field := range []struct {
		name, value string
	}{
		{"recipient", nf.recipient},
		{"recipient_chainId", nf.recipientChainID},
		{"network", nf.network},
		{"amount", nf.amount},
		{"namespace", nf.namespace},
		{"module", nf.module},
		{"gasPrice", nf.gasPrice},
		{"gasLimit", nf.gasLimit},
		{"creationTime", nf.creationTime},
		{"chainId", nf.chainID},
		{"nonce", nf.nonce},
		{"ttl", nf.ttl},
	} {
		max := fieldMaxLen[field.name]
		if len(field.value) > max {
			return errors.Errorf("Value of %s exceeds %d characters", field.name, max)
		}
		if field.name == "recipient" && len(field.value) != max {
			return errors.Errorf("Value of %s must be exactly %d characters", field.name, max)
		}
	}

	return nil
}

// normalizeDecimal forces a decimal point onto integral amounts: "5" becomes
// "5.0" while "5.25" passes through untouched. Pact reads a bare integer as
// a different runtime type, so this changes meaning, not just formatting.
func normalizeDecimal(amount string) string {

	if strings.Contains(amount, ".") {
		return amount
	}
	return amount + ".0"
}
