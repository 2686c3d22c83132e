package reachability

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"localhost", true},
		{"LOCALHOST:3000", true},
		{"127.0.0.1", true},
		{"http://127.0.0.1:8080", true},
		{"10.0.0.1", true},
		{"10.255.255.255", true},
		{"172.16.0.1", true},
		{"172.31.255.255", true},
		{"172.15.0.1", false},
		{"172.32.0.1", false},
		{"192.168.0.111", true},
		{"http://192.168.1.20:80/api", true},
		{"https://192.168.4.1", true},
		{"169.254.10.10", true},
		{"169.255.0.1", false},
		{"8.8.8.8", false},
		{"abc123.ngrok-free.app", false},
		{"https://tank.example.com:8443", false},
		{"127.0.0.2", false},
		{"192.168.000.001", true},
		{"http://010.000.000.005:80", true},
		{"127.000.000.001", true},
		{"008.008.008.008", false},
		{"", false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := Classify(tc.in).Local; got != tc.want {
				t.Fatalf("Classify(%q).Local = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestHost(t *testing.T) {
	cases := map[string]string{
		"192.168.0.111":                 "192.168.0.111",
		"http://192.168.0.111:80":       "192.168.0.111",
		"https://tank.example.com/api/": "tank.example.com",
		"  10.1.2.3  ":                  "10.1.2.3",
	}
	for in, want := range cases {
		if got := Host(in); got != want {
			t.Errorf("Host(%q) = %q, want %q", in, got, want)
		}
	}
}
