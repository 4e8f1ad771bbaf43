package routing

import "testing"

func TestRewriteSubdomainRoot(t *testing.T) {
	path, changed := Rewrite(Decision{Kind: KindPlatformSubdomain, Subdomain: "loja"}, "/")
	if !changed || path != "/loja" {
		t.Fatalf("expected /loja, got %q (changed=%v)", path, changed)
	}
}

func TestRewriteSubdomainDeepPath(t *testing.T) {
	path, changed := Rewrite(Decision{Kind: KindPlatformSubdomain, Subdomain: "loja"}, "/cardapio")
	if !changed || path != "/loja/cardapio" {
		t.Fatalf("expected /loja/cardapio, got %q", path)
	}
}

func TestRewriteCustomDomain(t *testing.T) {
	path, changed := Rewrite(Decision{Kind: KindCustomDomain, Host: "meurestaurante.com.br"}, "/")
	if !changed || path != "/custom/meurestaurante.com.br" {
		t.Fatalf("expected /custom/meurestaurante.com.br, got %q", path)
	}

	path, _ = Rewrite(Decision{Kind: KindCustomDomain, Host: "meurestaurante.com.br"}, "/sobre")
	if path != "/custom/meurestaurante.com.br/sobre" {
		t.Fatalf("expected /custom/meurestaurante.com.br/sobre, got %q", path)
	}
}

func TestRewriteInternalUnchanged(t *testing.T) {
	path, changed := Rewrite(Decision{Kind: KindInternal}, "/manage/loja")
	if changed || path != "/manage/loja" {
		t.Fatalf("expected pass-through, got %q (changed=%v)", path, changed)
	}
}

func TestGateProtectedPrefixes(t *testing.T) {
	gate := NewGate("/acesso/login", nil)

	redirect, allowed := gate.Authorize("/manage/loja", false)
	if allowed {
		t.Fatal("expected protected path to be denied without a session")
	}
	if redirect != "/acesso/login" {
		t.Fatalf("expected redirect to login, got %q", redirect)
	}

	if _, allowed := gate.Authorize("/manage/loja", true); !allowed {
		t.Fatal("expected authenticated request to pass")
	}

	if _, allowed := gate.Authorize("/loja", false); !allowed {
		t.Fatal("expected public menu path to pass without a session")
	}

	// Prefix match is segment-aware: "/management" is not "/manage".
	if _, allowed := gate.Authorize("/management", false); !allowed {
		t.Fatal("expected non-matching segment to pass")
	}
}
