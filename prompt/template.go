package prompt

// CodeFence opens and closes every code block of the prompt
const CodeFence = "```"

// FenceLanguage tags the code blocks so the model treats them as C#
const FenceLanguage = "csharp"

const Header = "I have some code I would like to unit test.\n\n"

const Requirements = `Please write some unit tests for this code. Requirements are:
- Tests must be written using the Xunit2 framework
- Tests must also use Moq for mocking services
- Tests make use of the [AutoMoqData] attribute which will automatically create test data
- Tests should use FluentAssertions instead of Assert.Equal, for example result.Succeeded().Should().BeTrue();
- Do not mock the Logger or automapper
`

const ExampleIntro = "Here is an example of a stub for a successful unit test collection:\n"

const ExampleStub = `public class HandlerTests
{
    [Theory, AutoMoqData]
    public async Task Handle_Success(
        [Frozen] Mock<IMyRepository> myRepository,
        MyEntity entity,
        MyRequest req,
        MyHandler uut)
    {
        // Arrange
        myRepository.Setup(x => x.GetSomethingAsync(req.Id)).ReturnsAsync(entity).Verifiable();
        // Act
        var result = await uut.Handle(req, CancellationToken.None);
        // Assert
        myRepository.Verify();
        myRepository.VerifyNoOtherCalls();
        result.Succeeded().Should().BeTrue();
    }

    [Theory, AutoMoqData]
    public async Task Handle_Failure(
        [Frozen] Mock<IMyRepository> myRepository,
        MyRequest req,
        MyHandler uut)
    {
        // Arrange
        myRepository.Setup(x => x.GetSomethingAsync(req.Id)).ThrowsAsync(new Exception("This did not work.")).Verifiable();
        // Act
        var result = await uut.Handle(req, CancellationToken.None);
        // Assert
        myRepository.Verify();
        myRepository.VerifyNoOtherCalls();
        result.Succeeded().Should().BeFalse();
        result.ErrorMessage.Should().Be("This did not work.");
    }
}`

// ContextHeader introduces the context files, it is omitted when there are none
const ContextHeader = "Here are some related files for additional context:\n\n"
