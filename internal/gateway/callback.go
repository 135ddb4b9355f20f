package gateway

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/alaminmiah4274/iron-temple/internal/apperr"
)

var (
	ErrBadSignature = apperr.New(apperr.Authorization, "callback signature is invalid")
	ErrBadCallback  = apperr.New(apperr.Validation, "callback is missing tran_id, amount, verify_sign or verify_key")
	ErrBadTranID    = apperr.New(apperr.Validation, "tran_id must look like txn_<subscription id>")
	ErrBadAmount    = apperr.New(apperr.Validation, "amount must be a positive decimal with at most two fraction digits")
)

const tranPrefix = "txn"

// maxWholeUnits keeps units*100+99 inside int64.
const maxWholeUnits = (math.MaxInt64 - 99) / 100

// Callback is what the gateway posts back to the success URL. Every posted
// field is kept because verify_key may name any of them.
type Callback struct {
	TranID    string
	Amount    string
	Status    string
	Signature string
	VerifyKey string
	form      url.Values
}

func CallbackFromForm(form url.Values) (Callback, error) {
	cb := Callback{
		TranID:    form.Get("tran_id"),
		Amount:    form.Get("amount"),
		Status:    form.Get("status"),
		Signature: form.Get("verify_sign"),
		VerifyKey: form.Get("verify_key"),
		form:      form,
	}
	if cb.TranID == "" || cb.Amount == "" || cb.Signature == "" || cb.VerifyKey == "" {
		return Callback{}, ErrBadCallback
	}
	return cb, nil
}

// Verify checks verify_sign the way SSLCommerz computes it: the fields listed
// in verify_key plus store_passwd=md5(store password), sorted by key, joined
// as key=value pairs with '&', then MD5 hex. tran_id and amount must be among
// the signed fields.
func (cb Callback) Verify(storePassword string) error {
	if storePassword == "" || cb.Signature == "" {
		return ErrBadSignature
	}

	signed := make(map[string]string)
	for _, key := range strings.Split(cb.VerifyKey, ",") {
		key = strings.TrimSpace(key)
		if key == "" || key == "store_passwd" {
			continue
		}
		signed[key] = cb.form.Get(key)
	}
	if _, ok := signed["tran_id"]; !ok {
		return ErrBadSignature
	}
	if _, ok := signed["amount"]; !ok {
		return ErrBadSignature
	}
	signed["store_passwd"] = md5Hex(storePassword)

	keys := make([]string, 0, len(signed))
	for k := range signed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + signed[k]
	}

	want := md5Hex(strings.Join(pairs, "&"))
	if subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(cb.Signature))) != 1 {
		return ErrBadSignature
	}
	return nil
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TranID(subscriptionID int) string {
	return tranPrefix + "_" + strconv.Itoa(subscriptionID)
}

// SubscriptionID reads the subscription id back out of a tran_id.
func SubscriptionID(tranID string) (int, error) {
	parts := strings.Split(tranID, "_")
	if len(parts) != 2 || parts[0] != tranPrefix {
		return 0, ErrBadTranID
	}

	id, err := strconv.Atoi(parts[1])
	if err != nil || id <= 0 {
		return 0, ErrBadTranID
	}
	return id, nil
}

// ParseAmount turns "49.9" or "49.90" into 4990.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if !digits(whole) || len(frac) > 2 || (hasFrac && !digits(frac)) {
		return 0, ErrBadAmount
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > maxWholeUnits {
		return 0, ErrBadAmount
	}

	var cents int64
	if frac != "" {
		for len(frac) < 2 {
			frac += "0"
		}
		cents, _ = strconv.ParseInt(frac, 10, 64)
	}

	total := units*100 + cents
	if total <= 0 {
		return 0, ErrBadAmount
	}
	return total, nil
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return sign + strconv.FormatInt(cents/100, 10) + "." + leftPad(strconv.FormatInt(cents%100, 10))
}

func leftPad(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}
