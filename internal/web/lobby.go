package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// LobbyView is the play page for one lobby. It renders an empty shell and
// fills it from the lobby websocket.
func LobbyView(lobbyID, joinCode string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, pageHead)
		_, _ = io.WriteString(w, `
      <header>
        <span class="tag">BombParty</span>
        <h1>Lobby <span id="code">`)
		writeEscaped(w, joinCode)
		_, _ = io.WriteString(w, `</span></h1>
        <p class="muted" id="phase">Connecting...</p>
      </header>

      <section class="panel">
        <form id="identity">
          <input name="player" placeholder="Your name" autocomplete="name" required/>
          <button type="button" data-action="join">Join</button>
          <button type="button" data-action="leave">Leave</button>
          <button type="button" data-action="start">Start</button>
        </form>
        <div id="status" class="muted"></div>
      </section>

      <section class="panel">
        <div class="muted">Players: <span id="members"></span></div>
        <div class="muted">Up now: <strong id="active">-</strong> <span id="timer"></span></div>
        <div class="prompt" id="prompt">&nbsp;</div>
        <form id="guessForm">
          <input name="guess" placeholder="Type a word containing the prompt" autocomplete="off"/>
          <button type="submit">Send</button>
        </form>
      </section>

      <section class="panel">
        <div class="log" id="log"></div>
      </section>

    <script data-lobby="`)
		writeEscaped(w, lobbyID)
		_, _ = io.WriteString(w, `">
      const lobbyID = document.currentScript.dataset.lobby;
      const identity = document.getElementById("identity");
      const status = document.getElementById("status");
      const logEl = document.getElementById("log");
      identity.elements.player.value = localStorage.getItem("bombparty.player") || "";
      const player = () => identity.elements.player.value.trim();
      let deadline = null;

      const log = (text) => {
        const line = document.createElement("div");
        line.textContent = new Date().toLocaleTimeString() + "  " + text;
        logEl.prepend(line);
      };

      const render = (lobby) => {
        document.getElementById("phase").textContent = lobby.phase;
        document.getElementById("members").textContent = (lobby.game ? lobby.game.rotation : lobby.members).join(", ");
        if (lobby.game) {
          document.getElementById("active").textContent = lobby.game.active || lobby.game.winner || "-";
          document.getElementById("prompt").textContent = lobby.game.prompt || "";
          deadline = lobby.game.deadline ? new Date(lobby.game.deadline) : null;
        }
      };

      identity.querySelectorAll("button").forEach((btn) => {
        btn.addEventListener("click", async () => {
          localStorage.setItem("bombparty.player", player());
          const res = await fetch("/api/lobbies/" + lobbyID + "/" + btn.dataset.action, {
            method: "POST",
            headers: { "Content-Type": "application/json" },
            body: JSON.stringify({ player: player() })
          });
          const data = await res.json();
          status.textContent = res.ok ? "" : (data.error || "Request failed.");
        });
      });

      const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/lobbies/" + lobbyID);
      document.getElementById("guessForm").addEventListener("submit", (event) => {
        event.preventDefault();
        const input = event.target.elements.guess;
        ws.send(JSON.stringify({ type: "guess", player: player(), guess: input.value }));
        input.value = "";
      });

      ws.onmessage = (msg) => {
        const ev = JSON.parse(msg.data);
        switch (ev.type) {
          case "snapshot":
            render(ev.lobby);
            return;
          case "player_joined":
            log(ev.participant + " joined (" + ev.roster_size + " players)");
            break;
          case "player_left":
            log(ev.participant + " left (" + ev.roster_size + " players)");
            break;
          case "leader_changed":
            log(ev.participant + " now leads the lobby");
            break;
          case "lobby_abandoned":
            log("lobby abandoned");
            break;
          case "game_started":
            log("game started: " + ev.order.join(" → "));
            break;
          case "countdown":
            log("starting in " + ev.remaining);
            break;
          case "turn_started":
            document.getElementById("active").textContent = ev.participant;
            document.getElementById("prompt").textContent = ev.prompt;
            deadline = new Date(ev.deadline);
            break;
          case "turn_succeeded":
            log(ev.participant + " played " + ev.guess);
            break;
          case "turn_failed":
            log(ev.participant + " exploded! " + ev.remaining + " left");
            break;
          case "game_won":
            log(ev.participant + " wins!");
            deadline = null;
            break;
          case "game_abandoned":
            log("game abandoned: " + ev.reason);
            deadline = null;
            break;
        }
        fetch("/api/lobbies/" + lobbyID).then((r) => r.ok ? r.json() : null).then((lobby) => lobby && render(lobby));
      };
      ws.onclose = () => { document.getElementById("phase").textContent = "disconnected"; };

      setInterval(() => {
        const el = document.getElementById("timer");
        if (!deadline) { el.textContent = ""; return; }
        const left = Math.max(0, (deadline - new Date()) / 1000);
        el.textContent = left.toFixed(1) + "s";
      }, 100);
    </script>`)
		_, err := io.WriteString(w, pageFoot)
		return err
	})
}
