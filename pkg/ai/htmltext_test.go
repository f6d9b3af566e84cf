package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "blocks become lines",
			in:   "<div><h1>T3 lumineux</h1><p>250 000 €</p></div>",
			want: "T3 lumineux\n250 000 €",
		},
		{
			name: "lists, breaks and entities",
			in:   "<ul><li>Cuisine équipée</li><li>Parking&nbsp;privé</li></ul><p>Contact<br>06 12 34 56 78</p>",
			want: "Cuisine équipée\nParking privé\nContact\n06 12 34 56 78",
		},
		{
			name: "scripts and styles are dropped",
			in:   "<html><head><title>Annonce</title></head><body><style>p{color:red}</style><p>Maison   avec\n jardin</p><script>track()</script></body></html>",
			want: "Maison avec jardin",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PlainText(tc.in))
		})
	}
}
