package validator

import (
	"errors"
	"slices"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
)

func TestSignatures_FilterAndExtract(t *testing.T) {
	ds := newRR("example.com. 54775 IN DS 370 13 2 BE74359954660069D5C63D200C39F5603827D7DD02B56F120EE9F3A8 6764247C")
	nsec := newRR("test.example.com. 3600 IN NSEC \000.test.example.com. A RRSIG NSEC")
	nsec3 := newRR("L72QU4B0R4USH96QN17VTCD8395QILEQ.example.com. 3600 IN NSEC3 1 0 2 ABCDEF T0B6SHHJ0JQRI032RVVLMCGGNHCVF5UM A RRSIG")

	expectedDS := []*dns.DS{ds.(*dns.DS)}
	expectedNSEC := []*dns.NSEC{nsec.(*dns.NSEC)}
	expectedNSEC3 := []*dns.NSEC3{nsec3.(*dns.NSEC3)}

	set := signatures{
		{rtype: dns.TypeA},
		{rtype: dns.TypeA},
		{rtype: dns.TypeNSEC, rrset: []dns.RR{nsec}},
		{rtype: dns.TypeNSEC3, rrset: []dns.RR{nsec3}},
		{
			rtype: dns.TypeDS,
			rrset: []dns.RR{
				newRR("example.com. 3600 IN NS ns1.example.com."),
				newRR("example.com. 3600 IN NS ns2.example.com."),
				ds,
			},
		},
	}

	t.Run("filterOnType", func(t *testing.T) {
		assert.Len(t, set.filterOnType(dns.TypeA), 2)
		assert.Len(t, set.filterOnType(dns.TypeNSEC3), 1)
		assert.Len(t, set.filterOnType(dns.TypeDS), 1)
	})

	t.Run("extractDSRecords matches filtered and unfiltered set", func(t *testing.T) {
		dsSet := set.filterOnType(dns.TypeDS)
		assert.True(t, slices.Equal(dsSet.extractDSRecords(), expectedDS))
		assert.True(t, slices.Equal(set.extractDSRecords(), expectedDS))
	})

	t.Run("extractNSECRecords", func(t *testing.T) {
		assert.True(t, slices.Equal(set.extractNSECRecords(), expectedNSEC))
	})

	t.Run("extractNSEC3Records", func(t *testing.T) {
		assert.True(t, slices.Equal(set.extractNSEC3Records(), expectedNSEC3))
	})
}

// TestSignatures_ValidAndVerify_RequireAll exercises Valid/Verify with RequireAllSignaturesValid
// forced on, so a single unverified signature anywhere in the set fails the whole set.
func TestSignatures_ValidAndVerify_RequireAll(t *testing.T) {
	RequireAllSignaturesValid = true
	defer func() { RequireAllSignaturesValid = DefaultRequireAllSignaturesValid }()

	t.Run("empty set is invalid", func(t *testing.T) {
		set := signatures{}
		assert.False(t, set.Valid())
		assert.ErrorIs(t, set.Verify(), ErrSignatureSetEmpty)
	})

	set := signatures{
		{rtype: dns.TypeA, verified: true},
		{rtype: dns.TypeMX, verified: true},
	}

	t.Run("all verified is valid", func(t *testing.T) {
		assert.True(t, set.Valid())
		assert.NoError(t, set.Verify())
	})

	errTest1 := errors.New("test error 1")
	set = slices.Concat(set, signatures{
		{rtype: dns.TypeMX, verified: false, err: errTest1},
	})

	t.Run("one unverified signature invalidates the set", func(t *testing.T) {
		assert.False(t, set.Valid())
		err := set.Verify()
		assert.ErrorIs(t, err, ErrVerifyFailed)
		assert.ErrorIs(t, err, errTest1)
	})

	errTest2 := errors.New("test error 2")
	errTest3 := errors.New("test error 3")
	set = slices.Concat(set, signatures{
		{rtype: dns.TypeMX, verified: false, err: errTest2},
		{rtype: dns.TypeMX, verified: false, err: errTest3},
	})

	t.Run("every failing signature contributes its error", func(t *testing.T) {
		assert.False(t, set.Valid())
		err := set.Verify()
		assert.ErrorIs(t, err, ErrVerifyFailed)
		assert.ErrorIs(t, err, errTest1)
		assert.ErrorIs(t, err, errTest2)
		assert.ErrorIs(t, err, errTest3)
		assert.NotErrorIs(t, err, ErrUnableToVerify)
	})

	set = slices.Concat(set, signatures{{rtype: dns.TypeMX, verified: false}})

	t.Run("a failure with no error falls back to ErrUnableToVerify", func(t *testing.T) {
		assert.ErrorIs(t, set.Verify(), ErrUnableToVerify)
	})
}

func TestSignatures_ValidAndVerify_OneOrMorePerRRSet_SingleType(t *testing.T) {
	errTest1 := errors.New("test error 1")

	t.Run("empty set is invalid", func(t *testing.T) {
		set := signatures{}
		assert.False(t, set.Valid())
		assert.ErrorIs(t, set.Verify(), ErrSignatureSetEmpty)
	})

	t.Run("single verified signature is valid", func(t *testing.T) {
		set := signatures{{rtype: dns.TypeA, verified: true}}
		assert.True(t, set.Valid())
		assert.NoError(t, set.Verify())
	})

	t.Run("single unverified signature with no error falls back to ErrUnableToVerify", func(t *testing.T) {
		set := signatures{{rtype: dns.TypeA, verified: false}}
		assert.False(t, set.Valid())
		err := set.Verify()
		assert.ErrorIs(t, err, ErrVerifyFailed)
		assert.ErrorIs(t, err, ErrUnableToVerify)
	})

	t.Run("single unverified signature returns its own error", func(t *testing.T) {
		set := signatures{{rtype: dns.TypeA, verified: false, err: errTest1}}
		assert.False(t, set.Valid())
		err := set.Verify()
		assert.ErrorIs(t, err, ErrVerifyFailed)
		assert.ErrorIs(t, err, errTest1)
	})
}

func TestSignatures_ValidAndVerify_OneOrMorePerRRSet_MultipleTypes(t *testing.T) {
	errTest1 := errors.New("test error 1")
	errTest2 := errors.New("test error 2")

	t.Run("one valid signature per type is valid overall", func(t *testing.T) {
		set := signatures{
			{rtype: dns.TypeA, verified: true},
			{rtype: dns.TypeMX, verified: true},
			{rtype: dns.TypeAAAA, verified: true},
		}
		assert.True(t, set.Valid())
		assert.NoError(t, set.Verify())
	})

	t.Run("a type with no valid signature invalidates the set, default error", func(t *testing.T) {
		set := signatures{
			{rtype: dns.TypeA, verified: true},
			{rtype: dns.TypeMX, verified: false},
			{rtype: dns.TypeAAAA, verified: true},
		}
		assert.False(t, set.Valid())
		err := set.Verify()
		assert.ErrorIs(t, err, ErrVerifyFailed)
		assert.ErrorIs(t, err, ErrUnableToVerify)
	})

	t.Run("a type with no valid signature invalidates the set, custom error", func(t *testing.T) {
		set := signatures{
			{rtype: dns.TypeA, verified: true},
			{rtype: dns.TypeMX, verified: false, err: errTest1},
			{rtype: dns.TypeAAAA, verified: true},
		}
		assert.False(t, set.Valid())
		err := set.Verify()
		assert.ErrorIs(t, err, ErrVerifyFailed)
		assert.ErrorIs(t, err, errTest1)
	})

	t.Run("a type is valid if any of its signatures verify, ordering variation 1", func(t *testing.T) {
		set := signatures{
			{rtype: dns.TypeA, verified: true},
			{rtype: dns.TypeMX, verified: false, err: errTest1},
			{rtype: dns.TypeMX, verified: true},
			{rtype: dns.TypeMX, verified: false, err: errTest2},
			{rtype: dns.TypeAAAA, verified: true},
		}
		assert.True(t, set.Valid())
		assert.NoError(t, set.Verify())
	})

	t.Run("a type is valid if any of its signatures verify, ordering variation 2", func(t *testing.T) {
		set := signatures{
			{rtype: dns.TypeA, verified: true},
			{rtype: dns.TypeMX, verified: true},
			{rtype: dns.TypeMX, verified: false, err: errTest1},
			{rtype: dns.TypeMX, verified: true},
			{rtype: dns.TypeAAAA, verified: true},
		}
		assert.True(t, set.Valid())
		assert.NoError(t, set.Verify())
	})
}

func TestSignatures_Verify_ErrorWrapping(t *testing.T) {
	errTest1 := errors.New("test error 1")
	errTest2 := errors.New("test error 2")
	errTest3 := errors.New("test error 3")

	// MX has one verified signature among its failures, so its errors are excluded; A, AAAA and
	// TXT have none, so theirs are included.
	set := signatures{
		{rtype: dns.TypeA, verified: false, err: errTest1},
		{rtype: dns.TypeMX, verified: true},
		{rtype: dns.TypeMX, verified: false, err: errTest2},
		{rtype: dns.TypeMX, verified: true},
		{rtype: dns.TypeAAAA, verified: false, err: errTest3},
		{rtype: dns.TypeTXT, verified: false},
	}

	assert.False(t, set.Valid())
	err := set.Verify()
	assert.ErrorIs(t, err, ErrVerifyFailed)
	assert.ErrorIs(t, err, errTest1)
	assert.NotErrorIs(t, err, errTest2)
	assert.ErrorIs(t, err, errTest3)
	assert.ErrorIs(t, err, ErrUnableToVerify)
}

func TestSignatures_CountNameTypeCombinations(t *testing.T) {
	cases := []struct {
		name string
		set  signatures
		want int
	}{
		{
			name: "distinct types, no names set",
			set: signatures{
				{rtype: dns.TypeA},
				{rtype: dns.TypeNSEC},
				{rtype: dns.TypeNSEC3},
				{rtype: dns.TypeDS},
			},
			want: 4,
		},
		{
			name: "repeated type collapses to one combination",
			set: signatures{
				{rtype: dns.TypeA},
				{rtype: dns.TypeA},
				{rtype: dns.TypeA},
				{rtype: dns.TypeDS},
			},
			want: 2,
		},
		{
			name: "empty set",
			set:  signatures{},
			want: 0,
		},
		{
			name: "name and type both distinguish combinations",
			set: signatures{
				{name: "a.example.com.", rtype: dns.TypeA},
				{name: "a.example.com.", rtype: dns.TypeA},
				{name: "b.example.com.", rtype: dns.TypeA},
				{name: "a.example.com.", rtype: dns.TypeDS},
			},
			want: 3,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.set.countNameTypeCombinations())
		})
	}
}
