package cli

type Options struct {
	Config      string `short:"c" long:"config" description:"YAML config file"`
	MetricsFile string `long:"metrics-file" description:"write request metrics in Prometheus text format on exit"`

	Login     LoginOptions     `command:"login" description:"sign in and store the token"`
	Logout    struct{}         `command:"logout" description:"sign out and remove the stored token"`
	Status    struct{}         `command:"status" description:"show whether a token is stored"`
	Whoami    struct{}         `command:"whoami" description:"print the profile of the signed in user"`
	Get       GetOptions       `command:"get" description:"GET an API path with the stored token"`
	ServeMock ServeMockOptions `command:"serve-mock" description:"run the mock identity backend"`
}

type LoginOptions struct {
	Username string `short:"u" long:"username" description:"account name" required:"true"`
	Password string `short:"p" long:"password" description:"password, read from stdin when omitted"`
}

type GetOptions struct {
	Args struct {
		Path string `positional-arg-name:"path" description:"path relative to api.base_url"`
	} `positional-args:"yes" required:"yes"`
}

type ServeMockOptions struct {
	Address string `short:"a" long:"address" description:"listen address" default:"127.0.0.1:8080"`
}
