package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"First Sunday of Advent", "1 SUNDAY ADVENT"},
		{"1st Sunday of Advent", "1 SUNDAY ADVENT"},
		{"1 ADVENT", "1 SUNDAY ADVENT"},
		{"15 ORDINARY", "15 SUNDAY"},
		{"Fifteenth Sunday in Ordinary Time", "15 SUNDAY"},
		{"Twenty-First Sunday in Ordinary Time", "21 SUNDAY"},
		{"Third Sunday of Lent, Year A", "3 SUNDAY LENT"},
		{"19 March – St Joseph", "SAINT JOSEPH"},
		{"29 June - Ss Peter and Paul", "SAINTS PETER AND PAUL"},
		{"St. Mary MacKillop", "SAINT MARY MACKILLOP"},
		{"The Most Holy Trinity", "TRINITY SUNDAY"},
		{"The Most Holy Body and Blood of Christ", "THE BODY AND BLOOD OF CHRIST"},
		{"Our Lord Jesus Christ, King of the Universe", "CHRIST THE KING, KING OF THE UNIVERSE"},
		{"17 December", "17TH DECEMBER"},
		{"17th December", "17TH DECEMBER"},
		{"Monday of the First Week in Ordinary Time", "MONDAY OF THE 1 WEEK"},
		{`"Saint Thérèse of the Child Jesus"`, "SAINT THERESE OF THE CHILD JESUS"},
		{"  Easter   Sunday ", "EASTER SUNDAY"},
		{"", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Name(c.in), "Name(%q)", c.in)
	}
}

func TestName_DoesNotExpandInsideWords(t *testing.T) {
	assert.Equal(t, "THE MOST PRECIOUS BLOOD", Name("The Most Precious Blood"))
	assert.Equal(t, "CHRIST THE KING", Name("Christ the King"))
	assert.Equal(t, "STEPHEN", Name("Stephen"))
}

func TestName_Idempotent(t *testing.T) {
	corpus := []string{
		"First Sunday of Advent",
		"1 ADVENT",
		"Thursday after Ash Wednesday",
		"Passion Sunday (Palm Sunday)",
		"The Ascension of the Lord",
		"24 June – The Nativity of St John the Baptist",
		"Second Sunday of Easter, Year C",
		"The Holy Family of Jesus, Mary and Joseph",
		"3 December – St Francis Xavier, priest",
		"FIRST ADVENT - Something",
		"1 may – 2 june – x",
		"Saturday of the Thirty-Fourth Week",
		"Ss. Cornelius and Cyprian",
		"Our Lady, Help of Christians",
		"Mary, Mother of God",
		"Easter Sunday: The Resurrection of the Lord",
		"21st   Sunday",
		"Thirty-first Sunday in Ordinary Time",
		"12 ORDINARY",
		"Monday of Holy Week",
	}

	for _, s := range corpus {
		once := Name(s)
		assert.Equal(t, once, Name(once), "Name is not idempotent for %q", s)
	}
}

func TestOrdinalSuffix(t *testing.T) {
	cases := map[string]string{
		"1": "ST", "2": "ND", "3": "RD", "4": "TH",
		"11": "TH", "12": "TH", "13": "TH",
		"21": "ST", "22": "ND", "23": "RD", "31": "ST",
	}
	for in, want := range cases {
		assert.Equal(t, want, OrdinalSuffix(in), "OrdinalSuffix(%q)", in)
	}
}

func TestOrdinalNumber(t *testing.T) {
	n, ok := OrdinalNumber("twenty-first")
	assert.True(t, ok)
	assert.Equal(t, "21", n)

	_, ok = OrdinalNumber("zeroth")
	assert.False(t, ok)
}

func TestSharedWords(t *testing.T) {
	assert.Equal(t, 2, SharedWords("SAINT JOSEPH", "SAINT JOSEPH SPOUSE"))
	assert.Equal(t, 0, SharedWords("", "ANYTHING"))
}
