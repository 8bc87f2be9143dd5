package policy

const (
	StrictFirewall = "Strict Firewall Policy"
	DMZWebServer   = "DMZ Web Server Policy"
	GuestNetwork   = "Guest Network Policy"
)

var builtinPolicies = []Policy{
	{
		Name: StrictFirewall,
		Context: `
Context: The firewall must be configured to deny all incoming traffic by default,
except for specific ports (80, 443, 22) for web and SSH access. Outgoing traffic
is permitted for all internal hosts.
`,
	},
	{
		Name: DMZWebServer,
		Context: `
Context: The DMZ web server must allow incoming traffic on ports 80 and 443 from
any source. All other incoming traffic should be blocked. The server can only
initiate connections to internal databases on port 3306.
`,
	},
	{
		Name: GuestNetwork,
		Context: `
Context: The guest network must provide internet access only. All traffic
between hosts on the guest network should be blocked. No access to the internal
corporate network is permitted from the guest network.
`,
	},
}

// Builtin returns a fresh catalog with the built-in policies.
func Builtin() *Catalog {
	c, err := NewCatalog(builtinPolicies...)
	if err != nil {
		panic(err)
	}
	return c
}
