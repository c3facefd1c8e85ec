package workspace

// SeedText is the body of a fresh document.
const SeedText = `Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat. Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur. Excepteur sint occaecat cupidatat non proident, sunt in culpa qui officia deserunt mollit anim id est laborum.

Morbi vitae risus quis tellus tincidunt tristique. Vivamus ac diam in nisl semper facilisis. In hac habitasse platea dictumst. Sed in urna id justo ultricies blandit. Praesent a nunc eu justo vestibulum bibendum. Maecenas vel libero eget turpis hendrerit malesuada. Integer euismod, libero id vehicula iaculis, nisi metus ultrices magna, vitae tincidunt leo felis non erat. Aenean non arcu eget justo aliquam hendrerit. Suspendisse potenti. Nam a ligula vel velit lacinia facilisis.

Curabitur pretium tincidunt lacus. Nulla facilisi. Sed non arcu non erat tempus mollis. Quisque scelerisque scelerisque elit. Aenean aliquet, magna in accumsan iaculis, dolor enim convallis mi, sit amet varius sem justo a magna. Maecenas tristique, purus quis dictum aliquam, massa libero rutrum enim, eget iaculis massa risus sit amet nisi.

Vestibulum ante ipsum primis in faucibus orci luctus et ultrices posuere cubilia curae; Donec interdum, mi vel iaculis interdum, purus nisl dictum urna, sed interdum lacus sem eu arcu. Vivamus quis magna at mi aliquam dictum. Proin id massa. Donec pretium, nunc vitae eleifend pulvinar, nunc purus aliquam tortor, vel tempus diam ipsum eget lacus. Sed in eros ac sem mollis dictum. Quisque eu justo a lorem hendrerit fermentum. Nullam consequat, libero sit amet viverra varius, libero odio bibendum dolor, a facilisis metus quam ac justo.`
