package keys

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// connectAgent dials the running SSH agent via SSH_AUTH_SOCK. Returns nil
// when no agent is reachable; agent integration is strictly best-effort and
// the core never depends on it.
func connectAgent() (agent.Agent, net.Conn) {
	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		return nil, nil
	}
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return nil, nil
	}
	return agent.NewClient(conn), conn
}

// AgentAdd loads the private key into the running agent, if any.
func AgentAdd(keyPath, comment string) error {
	ag, conn := connectAgent()
	if ag == nil {
		return nil
	}
	defer conn.Close()

	data, err := os.ReadFile(keyPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", keyPath, err)
	}
	priv, err := ssh.ParseRawPrivateKey(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", keyPath, err)
	}
	return ag.Add(agent.AddedKey{PrivateKey: priv, Comment: comment})
}

// AgentRemove drops the key from the running agent, if any. A key the agent
// never held is a no-op.
func AgentRemove(keyPath string) error {
	ag, conn := connectAgent()
	if ag == nil {
		return nil
	}
	defer conn.Close()

	data, err := os.ReadFile(keyPath + ".pub")
	if err != nil {
		return nil // no public half, nothing to match against
	}
	pub, _, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return nil
	}
	return ag.Remove(pub)
}
