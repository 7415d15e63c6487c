package fetchlib

import (
	"errors"
	"testing"
	"time"
)

func TestOptions_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     Option
		value   any
		wantErr error
	}{
		{"duration", OptTimeout, time.Second, nil},
		{"bool", OptFollowLocation, false, nil},
		{"int", OptMaxRedirs, 3, nil},
		{"string", OptProxy, "socks5://127.0.0.1:1080", nil},
		{"headers", OptHTTPHeader, Headers{{"A", "b"}}, nil},
		{"wrong type", OptTimeout, 30, ErrInvalidOptionValue},
		{"int as string", OptMaxRedirs, "5", ErrInvalidOptionValue},
		{"unknown key", Option(42), true, ErrUnsupportedOption},
		{"zero key", Option(0), true, ErrUnsupportedOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Options{}
			err := o.Set(tt.key, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Set() error = %v, want %v", err, tt.wantErr)
			}
			if _, stored := o[tt.key]; stored != (tt.wantErr == nil) {
				t.Fatalf("stored = %v", stored)
			}
		})
	}
}

func TestOption_String(t *testing.T) {
	if OptCookieJar.String() != "cookie-jar" {
		t.Errorf("OptCookieJar = %q", OptCookieJar.String())
	}
	if Option(99).String() != "option(99)" {
		t.Errorf("Option(99) = %q", Option(99).String())
	}
	for o := optInvalid + 1; o < optMax; o++ {
		if optionNames[o] == "" {
			t.Errorf("option %d has no name", int(o))
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	d := DefaultOptions()
	if d.getDuration(OptConnectTimeout) != DEF_CONNECT_TIMEOUT || d.getDuration(OptTimeout) != DEF_TIMEOUT {
		t.Errorf("timeouts: %v %v", d[OptConnectTimeout], d[OptTimeout])
	}
	if !d.getBool(OptFollowLocation) || !d.getBool(OptAutoReferer) || d.getBool(OptHeader) {
		t.Errorf("flags: %v", d)
	}
	if d.getInt(OptMaxRedirs) != DEF_MAX_REDIRS || d.getString(OptUserAgent) != DEF_USER_AGENT {
		t.Errorf("redirs/UA: %v %v", d[OptMaxRedirs], d[OptUserAgent])
	}
	if _, ok := d.getHeaders().Get("accept-language"); !ok {
		t.Errorf("accept-language header missing")
	}
	for k, v := range d {
		if !k.accepts(v) {
			t.Errorf("default for %s has type %T", k, v)
		}
	}
}

func TestOptions_Clone(t *testing.T) {
	o := DefaultOptions()
	c := o.Clone()
	c.getHeaders()[0].Value = "changed"
	c[OptTimeout] = time.Minute
	if o.getHeaders()[0].Value == "changed" || o.getDuration(OptTimeout) != DEF_TIMEOUT {
		t.Fatal("Clone shares state with the original")
	}
}

func TestOptions_WrongTypeIgnored(t *testing.T) {
	o := Options{OptTimeout: "soon", OptFollowLocation: 1}
	if o.getDuration(OptTimeout) != 0 || o.getBool(OptFollowLocation) {
		t.Fatal("values of the wrong type must read as zero")
	}
}
